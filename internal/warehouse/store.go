package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
)

func (l *Loader) insertDimensions(ctx context.Context, values *distinct) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dimension insert: %w", err)
	}
	defer tx.Rollback()

	for _, country := range values.countries.values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO countries (country_name, region) VALUES ($1, $2)
			ON CONFLICT (country_name) DO NOTHING`,
			country, RegionOf(country),
		)
		if err != nil {
			return fmt.Errorf("insert country %q: %w", country, err)
		}
	}

	simple := []struct {
		table  string
		column string
		values []string
	}{
		{"mental_disorders", "disorder_name", values.disorders.values},
		{"health_measures", "measure_name", values.measures.values},
		{"age_groups", "age_group_name", values.ageGroups.values},
		{"sex_categories", "sex_name", values.sexes.values},
	}
	for _, dim := range simple {
		stmt := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) ON CONFLICT (%s) DO NOTHING`,
			dim.table, dim.column, dim.column)
		for _, v := range dim.values {
			if _, err := tx.ExecContext(ctx, stmt, v); err != nil {
				return fmt.Errorf("insert into %s: %w", dim.table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dimension insert: %w", err)
	}
	return nil
}

// fetchDimensions reads every dimension table back so the lookup set reflects
// rows from this load and any previous one.
func (l *Loader) fetchDimensions(ctx context.Context) (*DimensionSet, error) {
	dims := &DimensionSet{}

	tables := []struct {
		query string
		dest  *map[string]int64
	}{
		{`SELECT country_id, country_name FROM countries`, &dims.countries},
		{`SELECT disorder_id, disorder_name FROM mental_disorders`, &dims.disorders},
		{`SELECT measure_id, measure_name FROM health_measures`, &dims.measures},
		{`SELECT age_group_id, age_group_name FROM age_groups`, &dims.ageGroups},
		{`SELECT sex_id, sex_name FROM sex_categories`, &dims.sexes},
	}
	for _, t := range tables {
		m, err := fetchLookup(ctx, l.db, t.query)
		if err != nil {
			return nil, err
		}
		*t.dest = m
	}
	return dims, nil
}

func fetchLookup(ctx context.Context, db *sql.DB, query string) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch dimension lookup: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan dimension row: %w", err)
		}
		out[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dimension rows: %w", err)
	}
	return out, nil
}

// appendFacts bulk-appends fact rows with multi-row inserts, sub-batched to
// stay under the statement parameter limit.
func (l *Loader) appendFacts(ctx context.Context, facts []FactRow) error {
	for start := 0; start < len(facts); start += maxInsertRows {
		end := start + maxInsertRows
		if end > len(facts) {
			end = len(facts)
		}
		if err := l.insertFactChunk(ctx, facts[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) insertFactChunk(ctx context.Context, facts []FactRow) error {
	if len(facts) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(`INSERT INTO mental_health_data
		(country_id, disorder_id, measure_id, age_group_id, sex_id, year, value, upper_bound, lower_bound) VALUES `)

	args := make([]any, 0, len(facts)*9)
	for i, f := range facts {
		if i > 0 {
			b.WriteByte(',')
		}
		base := i * 9
		fmt.Fprintf(&b, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)
		args = append(args,
			f.CountryID, f.DisorderID, f.MeasureID, f.AgeGroupID, f.SexID,
			f.Year, nullable(f.Value), nullable(f.UpperBound), nullable(f.LowerBound),
		)
	}

	if _, err := l.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("append fact batch: %w", err)
	}
	return nil
}

// nullable stores missing measurements as SQL NULL.
func nullable(f clean.Float) sql.NullFloat64 {
	if f.Missing() || math.IsInf(float64(f), 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(f), Valid: true}
}
