// Package sampler draws a bounded, measure-stratified sample from the raw
// extract so every health measure is represented without scanning the whole
// file into memory.
package sampler

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/dataset"
)

// DefaultSeed keeps sample draws reproducible across runs.
const DefaultSeed = 42

// DefaultMeasures are the six health measures present in the GBD extract.
var DefaultMeasures = []string{
	"Deaths",
	"DALYs (Disability-Adjusted Life Years)",
	"YLDs (Years Lived with Disability)",
	"YLLs (Years of Life Lost)",
	"Prevalence",
	"Incidence",
}

// BatchSource yields row batches; *dataset.Reader satisfies it.
type BatchSource interface {
	ReadBatch(n int) ([]dataset.Row, error)
}

// Config controls a stratified sampling run.
type Config struct {
	// TargetMeasures lists the measure values the sample must cover.
	TargetMeasures []string
	// PerMeasure is the quota of rows drawn for each measure.
	PerMeasure int
	// BatchSize is how many rows are scanned per read.
	BatchSize int
	// Seed fixes the random draw; zero means DefaultSeed.
	Seed int64
	// FallbackRows caps the plain head sample used when no measure was
	// ever satisfied.
	FallbackRows int
}

// Result is the outcome of a sampling run.
type Result struct {
	Rows []dataset.Row
	// Satisfied maps each covered measure to the number of rows drawn.
	Satisfied map[string]int
	// Unsatisfied lists target measures never seen with enough rows in a
	// single batch. Such measures are simply absent from the sample; this
	// is a known gap of the in-batch quota rule, kept as designed.
	Unsatisfied []string
	// Fallback reports that the head-of-file fallback was used.
	Fallback bool
	RowsScanned int
}

// Stratified scans src batch by batch. The first time a measure shows up in a
// batch with at least PerMeasure rows, PerMeasure of them are drawn uniformly
// at random and the measure is marked satisfied. Scanning stops as soon as
// every target measure is satisfied or the source is exhausted. If nothing was
// sampled at all, the first FallbackRows rows are returned unmodified.
func Stratified(src BatchSource, cfg Config, log *zap.SugaredLogger) (*Result, error) {
	if len(cfg.TargetMeasures) == 0 {
		return nil, errors.New("at least one target measure is required")
	}
	if cfg.PerMeasure <= 0 {
		return nil, fmt.Errorf("per-measure quota must be positive, got %d", cfg.PerMeasure)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	rng := rand.New(rand.NewSource(seed))

	targets := make(map[string]bool, len(cfg.TargetMeasures))
	for _, m := range cfg.TargetMeasures {
		targets[m] = true
	}

	res := &Result{Satisfied: make(map[string]int)}
	var head []dataset.Row

	for len(res.Satisfied) < len(targets) {
		batch, err := src.ReadBatch(cfg.BatchSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		res.RowsScanned += len(batch)

		if cfg.FallbackRows > 0 && len(head) < cfg.FallbackRows {
			take := cfg.FallbackRows - len(head)
			if take > len(batch) {
				take = len(batch)
			}
			head = append(head, batch[:take]...)
		}

		for _, measure := range newMeasures(batch, targets, res.Satisfied) {
			rows := rowsForMeasure(batch, measure)
			if len(rows) < cfg.PerMeasure {
				// The quota must be met within a single batch; a
				// measure that never is stays unsampled.
				continue
			}
			drawn := draw(rng, rows, cfg.PerMeasure)
			res.Rows = append(res.Rows, drawn...)
			res.Satisfied[measure] = len(drawn)
			log.Infow("sampled measure", "measure", measure, "rows", len(drawn))
		}
	}

	for _, m := range cfg.TargetMeasures {
		if _, ok := res.Satisfied[m]; !ok {
			res.Unsatisfied = append(res.Unsatisfied, m)
		}
	}
	if len(res.Unsatisfied) > 0 {
		log.Warnw("measures left unsatisfied at end of scan", "measures", res.Unsatisfied)
	}

	if len(res.Rows) == 0 {
		log.Warnw("no measure satisfied, falling back to head of file", "rows", len(head))
		res.Rows = head
		res.Fallback = true
	}
	return res, nil
}

// newMeasures returns target measures that appear in the batch and are not
// yet satisfied, in first-seen order.
func newMeasures(batch []dataset.Row, targets map[string]bool, satisfied map[string]int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, row := range batch {
		m := row.Measure
		if seen[m] || !targets[m] {
			continue
		}
		seen[m] = true
		if _, ok := satisfied[m]; !ok {
			out = append(out, m)
		}
	}
	return out
}

func rowsForMeasure(batch []dataset.Row, measure string) []dataset.Row {
	var out []dataset.Row
	for _, row := range batch {
		if row.Measure == measure {
			out = append(out, row)
		}
	}
	return out
}

// draw picks n distinct rows uniformly at random.
func draw(rng *rand.Rand, rows []dataset.Row, n int) []dataset.Row {
	idx := rng.Perm(len(rows))[:n]
	out := make([]dataset.Row, 0, n)
	for _, i := range idx {
		out = append(out, rows[i])
	}
	return out
}
