package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
)

// Reader streams the raw extract in caller-sized batches. It is not safe for
// concurrent use; the pipeline is batch-sequential by design.
type Reader struct {
	f    *os.File
	dec  *csvutil.Decoder
	rows int
}

// Open opens the extract at path and validates its header against the schema
// mapping. Unknown extra columns are ignored; a missing mapped column is a
// hard error.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}

	header := make(map[string]bool, len(dec.Header()))
	for _, col := range dec.Header() {
		header[col] = true
	}
	for _, col := range SourceColumns() {
		if !header[col] {
			f.Close()
			return nil, fmt.Errorf("source header missing column %q (schema %s)", col, SchemaVersion)
		}
	}

	return &Reader{f: f, dec: dec}, nil
}

// ReadBatch reads up to n rows. It returns io.EOF once the source is
// exhausted and no rows were read.
func (r *Reader) ReadBatch(n int) ([]Row, error) {
	if n <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", n)
	}

	batch := make([]Row, 0, n)
	for len(batch) < n {
		var row Row
		if err := r.dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode row %d: %w", r.rows+len(batch)+1, err)
		}
		batch = append(batch, row)
	}

	r.rows += len(batch)
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// RowsRead reports the number of rows decoded so far.
func (r *Reader) RowsRead() int { return r.rows }

// Close releases the underlying file handle.
func (r *Reader) Close() error { return r.f.Close() }
