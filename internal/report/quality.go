package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Quality summarizes the loaded warehouse: volume, coverage, value
// completeness, and the most recent load run.
type Quality struct {
	TotalRecords    int64   `json:"total_records"`
	Countries       int     `json:"countries"`
	Disorders       int     `json:"disorders"`
	YearMin         int     `json:"year_min"`
	YearMax         int     `json:"year_max"`
	CompletenessPct float64 `json:"value_completeness_percent"`
	LastRun         *Run    `json:"last_run,omitempty"`
}

// Run is one row of the load run log.
type Run struct {
	RunID       string    `json:"run_id"`
	SourceFile  string    `json:"source_file"`
	RowsRead    int64     `json:"rows_read"`
	RowsLoaded  int64     `json:"rows_loaded"`
	RowsDropped int64     `json:"rows_dropped"`
	Batches     int       `json:"batches"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

const qualityQuery = `
SELECT COUNT(*),
       COUNT(DISTINCT country_id),
       COUNT(DISTINCT disorder_id),
       COALESCE(MIN(year), 0),
       COALESCE(MAX(year), 0),
       COALESCE(ROUND(COUNT(value) * 100.0 / NULLIF(COUNT(*), 0), 2), 0)::float8
FROM mental_health_data`

const lastRunQuery = `
SELECT run_id::text, source_file, rows_read, rows_loaded, rows_dropped, batches, started_at, finished_at
FROM etl_runs
ORDER BY started_at DESC
LIMIT 1`

// DataQuality computes the warehouse quality report.
func (q *Queries) DataQuality(ctx context.Context) (*Quality, error) {
	var out Quality
	if q.cached(ctx, "gmda:report:quality", &out) {
		return &out, nil
	}

	err := q.db.QueryRowContext(ctx, qualityQuery).Scan(
		&out.TotalRecords, &out.Countries, &out.Disorders,
		&out.YearMin, &out.YearMax, &out.CompletenessPct,
	)
	if err != nil {
		return nil, fmt.Errorf("data quality query: %w", err)
	}

	var run Run
	err = q.db.QueryRowContext(ctx, lastRunQuery).Scan(
		&run.RunID, &run.SourceFile,
		&run.RowsRead, &run.RowsLoaded, &run.RowsDropped, &run.Batches,
		&run.StartedAt, &run.FinishedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// never loaded through the run log; still a valid report
	case err != nil:
		return nil, fmt.Errorf("last run query: %w", err)
	default:
		out.LastRun = &run
	}

	q.store(ctx, "gmda:report:quality", out)
	return &out, nil
}
