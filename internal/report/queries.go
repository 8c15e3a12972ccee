package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/redis"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/stats"
)

// Queries runs the fixed aggregate reports against the loaded warehouse.
// A nil cache disables caching; every query then goes straight to Postgres.
type Queries struct {
	db    *sql.DB
	cache *redis.Client
	ttl   time.Duration
	log   *zap.SugaredLogger
}

// NewQueries wires the report query layer.
func NewQueries(db *sql.DB, cache *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *Queries {
	return &Queries{db: db, cache: cache, ttl: ttl, log: log}
}

// The star schema drops the metric column, so warehouse-side growth reports
// pin measure and sex through the dimension tables instead of the original
// flat-table metric filter.
const growthQuery = `
WITH baseline AS (
    SELECT f.disorder_id, AVG(f.value) AS v
    FROM mental_health_data f
    JOIN health_measures m USING (measure_id)
    JOIN sex_categories s USING (sex_id)
    WHERE f.year = $1 AND m.measure_name = 'Prevalence' AND s.sex_name = 'Both'
    GROUP BY f.disorder_id
), latest AS (
    SELECT f.disorder_id, AVG(f.value) AS v
    FROM mental_health_data f
    JOIN health_measures m USING (measure_id)
    JOIN sex_categories s USING (sex_id)
    WHERE f.year = $2 AND m.measure_name = 'Prevalence' AND s.sex_name = 'Both'
    GROUP BY f.disorder_id
)
SELECT d.disorder_name,
       ROUND((b.v * 100)::numeric, 2)::float8,
       ROUND((l.v * 100)::numeric, 2)::float8,
       ROUND(((l.v - b.v) * 100)::numeric, 2)::float8,
       ROUND(((l.v - b.v) / NULLIF(b.v, 0) * 100)::numeric, 1)::float8
FROM latest l
JOIN baseline b USING (disorder_id)
JOIN mental_disorders d USING (disorder_id)
WHERE d.disorder_name = ANY($3)
ORDER BY 5 DESC NULLS LAST, d.disorder_name`

const ageTrendQuery = `
WITH baseline AS (
    SELECT f.age_group_id, AVG(f.value) AS v
    FROM mental_health_data f
    JOIN sex_categories s USING (sex_id)
    WHERE f.year = $1 AND s.sex_name = 'Both'
    GROUP BY f.age_group_id
), latest AS (
    SELECT f.age_group_id, AVG(f.value) AS v
    FROM mental_health_data f
    JOIN sex_categories s USING (sex_id)
    WHERE f.year = $2 AND s.sex_name = 'Both'
    GROUP BY f.age_group_id
)
SELECT a.age_group_name,
       ROUND((b.v * 100)::numeric, 2)::float8,
       ROUND((l.v * 100)::numeric, 2)::float8,
       ROUND(((l.v - b.v) * 100)::numeric, 2)::float8,
       ROUND(((l.v - b.v) / NULLIF(b.v, 0) * 100)::numeric, 1)::float8
FROM latest l
JOIN baseline b USING (age_group_id)
JOIN age_groups a USING (age_group_id)
ORDER BY 5 DESC NULLS LAST, a.age_group_name`

// DisorderGrowth runs the warehouse-side disorder growth analysis.
func (q *Queries) DisorderGrowth(ctx context.Context) ([]GrowthRow, error) {
	var rows []GrowthRow
	if q.cached(ctx, "gmda:report:disorder_growth", &rows) {
		return rows, nil
	}
	rows, err := q.growth(ctx, growthQuery, BaselineYear, LatestYear, TrackedDisorders)
	if err != nil {
		return nil, fmt.Errorf("disorder growth query: %w", err)
	}
	q.store(ctx, "gmda:report:disorder_growth", rows)
	return rows, nil
}

// AgeGroupTrends runs the warehouse-side age-group trend analysis.
func (q *Queries) AgeGroupTrends(ctx context.Context) ([]GrowthRow, error) {
	var rows []GrowthRow
	if q.cached(ctx, "gmda:report:age_trends", &rows) {
		return rows, nil
	}
	rows, err := q.growth(ctx, ageTrendQuery, BaselineYear, LatestYear, nil)
	if err != nil {
		return nil, fmt.Errorf("age group trend query: %w", err)
	}
	q.store(ctx, "gmda:report:age_trends", rows)
	return rows, nil
}

func (q *Queries) growth(ctx context.Context, query string, baseline, latest int, labels []string) ([]GrowthRow, error) {
	args := []any{baseline, latest}
	if labels != nil {
		args = append(args, labels)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GrowthRow
	for rows.Next() {
		var r GrowthRow
		var relative sql.NullFloat64
		if err := rows.Scan(&r.Label, &r.BaselinePct, &r.LatestPct, &r.ChangePoints, &relative); err != nil {
			return nil, err
		}
		if relative.Valid {
			r.RelativeGrowth = stats.Ratio{Defined: true, Percent: relative.Float64}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
