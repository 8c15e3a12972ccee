// Package warehouse loads the cleaned dataset into the relational star
// schema: five dimension tables, one fact table, and the materialized views
// derived from them.
package warehouse

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/dataset"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/config"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/metrics"
)

//go:embed schema.sql
var SchemaSQL string

// State is the loader's position in the load sequence. Transitions are
// strictly ordered; a failed stage leaves the loader where it was and the
// only recovery is a fresh loader.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateSchemaReady
	StateDimensionsLoaded
	StateFactsLoaded
	StateViewsRefreshed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnected:
		return "CONNECTED"
	case StateSchemaReady:
		return "SCHEMA_READY"
	case StateDimensionsLoaded:
		return "DIMENSIONS_LOADED"
	case StateFactsLoaded:
		return "FACTS_LOADED"
	case StateViewsRefreshed:
		return "VIEWS_REFRESHED"
	default:
		return "UNKNOWN"
	}
}

// ErrOutOfOrder reports a load stage invoked out of sequence.
var ErrOutOfOrder = errors.New("load stage out of order")

// RowSource yields raw row batches; *dataset.Reader satisfies it.
type RowSource interface {
	ReadBatch(n int) ([]dataset.Row, error)
}

// maxInsertRows bounds one multi-row INSERT: nine parameters per fact row
// against PostgreSQL's 65535-parameter statement limit.
const maxInsertRows = 1000

// Loader drives the staged warehouse load.
type Loader struct {
	db    *sql.DB
	cfg   config.Analysis
	log   *zap.SugaredLogger
	stats *metrics.Metrics

	state State
	dims  *DimensionSet
}

// FactTotals summarizes the fact-loading stage. Dropped rows are counted, not
// retried; losing facts whose categories missed the bounded dimension scan is
// an accepted property of this design.
type FactTotals struct {
	RowsRead     int64
	RowsLoaded   int64
	RowsDropped  int64
	InvalidYears int64
	Batches      int
}

// Result describes one complete load run.
type Result struct {
	RunID      uuid.UUID
	SourceFile string
	Totals     FactTotals
	Dimensions DimensionCounts
	StartedAt  time.Time
	Duration   time.Duration
}

// New returns a loader over an established connection; the loader starts in
// CONNECTED and does not own the connection's lifetime.
func New(db *sql.DB, cfg config.Analysis, log *zap.SugaredLogger, stats *metrics.Metrics) *Loader {
	return &Loader{db: db, cfg: cfg, log: log, stats: stats, state: StateConnected}
}

// State reports the loader's current stage.
func (l *Loader) State() State { return l.state }

func (l *Loader) transition(from, to State) error {
	if l.state != from {
		return fmt.Errorf("%w: %s requires %s, loader is %s", ErrOutOfOrder, to, from, l.state)
	}
	l.state = to
	return nil
}

// InitSchema creates the star schema, the run log and the materialized views.
func (l *Loader) InitSchema(ctx context.Context) error {
	if l.state != StateConnected {
		return fmt.Errorf("%w: SCHEMA_READY requires CONNECTED, loader is %s", ErrOutOfOrder, l.state)
	}
	for _, stmt := range splitStatements(SchemaSQL) {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}
	l.state = StateSchemaReady
	l.log.Infow("schema ready")
	return nil
}

// VerifySchema checks that a pre-existing schema is present instead of
// creating one.
func (l *Loader) VerifySchema(ctx context.Context) error {
	if l.state != StateConnected {
		return fmt.Errorf("%w: SCHEMA_READY requires CONNECTED, loader is %s", ErrOutOfOrder, l.state)
	}
	var regclass sql.NullString
	err := l.db.QueryRowContext(ctx, `SELECT to_regclass('mental_health_data')::text`).Scan(&regclass)
	if err != nil {
		return fmt.Errorf("verify schema: %w", err)
	}
	if !regclass.Valid {
		return errors.New("schema not initialized: table mental_health_data missing (run init-schema first)")
	}
	l.state = StateSchemaReady
	return nil
}

// LoadDimensions scans a bounded sample of the source for distinct
// categorical values and populates the dimension tables. Coverage is
// probabilistic: categories that only occur past the sample bound never get a
// dimension row, and their fact rows are later dropped.
func (l *Loader) LoadDimensions(ctx context.Context, src RowSource) error {
	if err := l.transition(StateSchemaReady, StateDimensionsLoaded); err != nil {
		return err
	}

	values := newDistinct()
	scanned := 0
	for scanned < l.cfg.SampleSize {
		batch, err := src.ReadBatch(l.cfg.ChunkSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.state = StateSchemaReady
			return fmt.Errorf("scan dimension sample: %w", err)
		}
		scanned += len(batch)

		records, _ := clean.ConvertBatch(batch)
		for _, rec := range records {
			values.add(rec)
		}
	}

	if err := l.insertDimensions(ctx, values); err != nil {
		l.state = StateSchemaReady
		return err
	}
	dims, err := l.fetchDimensions(ctx)
	if err != nil {
		l.state = StateSchemaReady
		return err
	}
	l.dims = dims

	counts := dims.Counts()
	l.log.Infow("dimensions loaded",
		"rows_scanned", scanned,
		"countries", counts.Countries,
		"disorders", counts.Disorders,
		"measures", counts.Measures,
		"age_groups", counts.AgeGroups,
		"sexes", counts.Sexes,
	)
	return nil
}

// Dimensions exposes the lookup set built by LoadDimensions; nil before that
// stage completes.
func (l *Loader) Dimensions() *DimensionSet { return l.dims }

// LoadFacts streams the full source in fixed-size batches, resolves every
// categorical value against the dimension set, drops rows with unresolved
// keys, and appends the survivors to the fact table.
func (l *Loader) LoadFacts(ctx context.Context, src RowSource) (FactTotals, error) {
	var totals FactTotals
	if err := l.transition(StateDimensionsLoaded, StateFactsLoaded); err != nil {
		return totals, err
	}

	for {
		batch, err := src.ReadBatch(l.cfg.ChunkSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.state = StateDimensionsLoaded
			return totals, fmt.Errorf("read fact batch: %w", err)
		}

		totals.RowsRead += int64(len(batch))
		records, invalid := clean.ConvertBatch(batch)
		totals.InvalidYears += int64(invalid)

		facts := make([]FactRow, 0, len(records))
		missing := 0
		for _, rec := range records {
			fact, ok := l.dims.Map(rec)
			if !ok {
				totals.RowsDropped++
				continue
			}
			for _, v := range []clean.Float{fact.Value, fact.UpperBound, fact.LowerBound} {
				if v.Missing() {
					missing++
				}
			}
			facts = append(facts, fact)
		}

		if err := l.appendFacts(ctx, facts); err != nil {
			l.state = StateDimensionsLoaded
			return totals, err
		}
		totals.RowsLoaded += int64(len(facts))
		totals.Batches++

		if l.stats != nil {
			l.stats.RowsRead.Add(float64(len(batch)))
			l.stats.RowsLoaded.Add(float64(len(facts)))
			l.stats.RowsDropped.Add(float64(len(records) - len(facts)))
			l.stats.MissingValues.Add(float64(missing))
			l.stats.BatchesProcessed.Inc()
		}
		if totals.Batches%10 == 0 {
			l.log.Infow("fact load progress", "batches", totals.Batches, "rows_loaded", totals.RowsLoaded)
		}
	}

	l.log.Infow("facts loaded",
		"rows_read", totals.RowsRead,
		"rows_loaded", totals.RowsLoaded,
		"rows_dropped", totals.RowsDropped,
		"invalid_years", totals.InvalidYears,
		"batches", totals.Batches,
	)
	return totals, nil
}

// RefreshViews triggers the single post-load refresh of every materialized
// view. There is no per-view isolation: if the refresh fails the load is
// reported failed even though the facts are already committed.
func (l *Loader) RefreshViews(ctx context.Context) error {
	if err := l.transition(StateFactsLoaded, StateViewsRefreshed); err != nil {
		return err
	}
	if _, err := l.db.ExecContext(ctx, `SELECT refresh_all_materialized_views()`); err != nil {
		l.state = StateFactsLoaded
		return fmt.Errorf("refresh materialized views: %w", err)
	}
	l.log.Infow("materialized views refreshed")
	return nil
}

// Run executes the full staged load against the CSV at path. The schema must
// already exist (init-schema); a failure at any stage aborts the run, and
// there is no partial-completion resume.
func (l *Loader) Run(ctx context.Context, path string) (*Result, error) {
	started := time.Now()

	if err := l.VerifySchema(ctx); err != nil {
		return nil, err
	}

	dimSrc, err := dataset.Open(path)
	if err != nil {
		return nil, err
	}
	err = l.LoadDimensions(ctx, dimSrc)
	if cerr := dimSrc.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close dimension scan: %w", cerr)
	}
	if err != nil {
		return nil, err
	}

	factSrc, err := dataset.Open(path)
	if err != nil {
		return nil, err
	}
	totals, err := l.LoadFacts(ctx, factSrc)
	if cerr := factSrc.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close fact scan: %w", cerr)
	}
	if err != nil {
		return nil, err
	}

	if err := l.RefreshViews(ctx); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      uuid.New(),
		SourceFile: path,
		Totals:     totals,
		Dimensions: l.dims.Counts(),
		StartedAt:  started,
		Duration:   time.Since(started),
	}
	if err := l.recordRun(ctx, res); err != nil {
		return nil, err
	}
	if l.stats != nil {
		l.stats.LoadDuration.Observe(res.Duration.Seconds())
	}
	return res, nil
}

func (l *Loader) recordRun(ctx context.Context, res *Result) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO etl_runs (run_id, source_file, rows_read, rows_loaded, rows_dropped, batches, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.RunID, res.SourceFile,
		res.Totals.RowsRead, res.Totals.RowsLoaded, res.Totals.RowsDropped, res.Totals.Batches,
		res.StartedAt, res.StartedAt.Add(res.Duration),
	)
	if err != nil {
		return fmt.Errorf("record etl run: %w", err)
	}
	return nil
}
