// Package httptransport exposes the read-only reporting API over HTTP. It
// delegates to the report query layer and carries no analysis logic itself.
package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/redis"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/report"
)

// Handler is the thin HTTP layer over the reporting queries.
type Handler struct {
	queries *report.Queries
	cache   *redis.Client
	log     *zap.SugaredLogger
}

func NewHandler(queries *report.Queries, cache *redis.Client, log *zap.SugaredLogger) *Handler {
	return &Handler{queries: queries, cache: cache, log: log}
}

// NewRouter wires the public endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/quality", h.handleQuality)
		r.Get("/growth/disorders", h.handleDisorderGrowth)
		r.Get("/growth/age-groups", h.handleAgeGroupTrends)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if h.cache != nil {
		if err := h.cache.Health(r.Context()); err != nil {
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) handleQuality(w http.ResponseWriter, r *http.Request) {
	q, err := h.queries.DataQuality(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) handleDisorderGrowth(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.DisorderGrowth(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, growthResponse(rows))
}

func (h *Handler) handleAgeGroupTrends(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.AgeGroupTrends(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, growthResponse(rows))
}

type growthItem struct {
	report.GrowthRow
	Trend string `json:"trend_category"`
}

func growthResponse(rows []report.GrowthRow) []growthItem {
	out := make([]growthItem, len(rows))
	for i, r := range rows {
		out[i] = growthItem{GrowthRow: r, Trend: r.TrendCategory()}
	}
	return out
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Errorw("request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
