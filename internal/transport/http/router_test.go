package httptransport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/report"
)

type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupSuite() {
	log := zap.NewNop().Sugar()
	handler := NewHandler(report.NewQueries(nil, nil, 0, log), nil, log)
	s.router = NewRouter(handler)
}

func (s *RouterSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestHealthz() {
	rec := s.get("/healthz")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("ok", body["status"])
	// No cache configured: the health payload stays silent about it.
	s.NotContains(body, "cache")
}

func (s *RouterSuite) TestMetrics() {
	rec := s.get("/metrics")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestUnknownRoute() {
	rec := s.get("/api/unknown")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestMethodNotAllowed() {
	req := httptest.NewRequest(http.MethodPost, "/api/quality", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}
