package warehouse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StatementsSuite struct {
	suite.Suite
}

func TestStatementsSuite(t *testing.T) {
	suite.Run(t, new(StatementsSuite))
}

func (s *StatementsSuite) TestSplitStatements() {
	s.Run("splits on semicolons and trims whitespace", func() {
		got := splitStatements("CREATE TABLE a (id INT);\n\nCREATE TABLE b (id INT);")
		s.Equal([]string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"}, got)
	})

	s.Run("ignores empty trailing statements", func() {
		got := splitStatements("SELECT 1;;\n;")
		s.Equal([]string{"SELECT 1"}, got)
	})

	s.Run("semicolons inside single quotes do not split", func() {
		got := splitStatements(`INSERT INTO t VALUES ('a;b'); SELECT 1;`)
		s.Require().Len(got, 2)
		s.Equal(`INSERT INTO t VALUES ('a;b')`, got[0])
	})

	s.Run("line comments are stripped", func() {
		got := splitStatements("-- leading comment; with semicolon\nSELECT 1; -- trailing\nSELECT 2;")
		s.Equal([]string{"SELECT 1", "SELECT 2"}, got)
	})

	s.Run("dollar-quoted bodies keep their semicolons", func() {
		script := `
CREATE FUNCTION f() RETURNS void AS $$
BEGIN
    REFRESH MATERIALIZED VIEW v1;
    REFRESH MATERIALIZED VIEW v2;
END;
$$ LANGUAGE plpgsql;
SELECT 1;`
		got := splitStatements(script)
		s.Require().Len(got, 2)
		s.Contains(got[0], "REFRESH MATERIALIZED VIEW v2;")
		s.Equal("SELECT 1", got[1])
	})

	s.Run("tagged dollar quotes work too", func() {
		script := `CREATE FUNCTION f() RETURNS void AS $body$ BEGIN SELECT 1; END; $body$ LANGUAGE plpgsql;`
		got := splitStatements(script)
		s.Require().Len(got, 1)
		s.Contains(got[0], "$body$")
	})

	s.Run("the embedded schema splits into whole statements", func() {
		got := splitStatements(SchemaSQL)
		s.NotEmpty(got)
		for _, stmt := range got {
			s.NotEmpty(strings.TrimSpace(stmt))
		}
		// The view-refresh function must survive as one statement.
		var found bool
		for _, stmt := range got {
			if strings.Contains(stmt, "refresh_all_materialized_views") &&
				strings.Contains(stmt, "LANGUAGE plpgsql") {
				found = true
			}
		}
		s.True(found, "plpgsql function was split apart")
	})
}
