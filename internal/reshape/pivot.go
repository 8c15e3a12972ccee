// Package reshape pivots cleaned records into the wide matrices consumed by
// downstream modeling and the chart exporter.
package reshape

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/stats"
)

type cell struct {
	sum float64
	n   int
}

// Matrix is a row-label × column-label pivot whose cells hold the mean of the
// observed values. Cells with no observations read as 0. Axis order follows
// first appearance in the source unless Sort is called.
type Matrix struct {
	RowName string
	ColName string

	rows   []string
	cols   []string
	rowIdx map[string]int
	colIdx map[string]int
	cells  map[[2]int]*cell
}

// Cell is one non-empty matrix entry in flattened form.
type Cell struct {
	Row  string
	Col  string
	Mean float64
}

// Pivot builds a matrix from records, grouping rows by rowDim, columns by
// colDim and averaging value. Missing values contribute nothing; a cell that
// saw only missing values stays empty.
func Pivot(records []clean.Record, rowDim, colDim stats.Dimension, value stats.Value) *Matrix {
	m := &Matrix{
		RowName: rowDim.Name,
		ColName: colDim.Name,
		rowIdx:  make(map[string]int),
		colIdx:  make(map[string]int),
		cells:   make(map[[2]int]*cell),
	}

	for _, rec := range records {
		r := m.row(rowDim.Of(rec))
		c := m.col(colDim.Of(rec))

		v := float64(value(rec))
		if math.IsNaN(v) {
			continue
		}
		key := [2]int{r, c}
		cl := m.cells[key]
		if cl == nil {
			cl = &cell{}
			m.cells[key] = cl
		}
		cl.sum += v
		cl.n++
	}
	return m
}

func (m *Matrix) row(label string) int {
	if i, ok := m.rowIdx[label]; ok {
		return i
	}
	m.rowIdx[label] = len(m.rows)
	m.rows = append(m.rows, label)
	return len(m.rows) - 1
}

func (m *Matrix) col(label string) int {
	if i, ok := m.colIdx[label]; ok {
		return i
	}
	m.colIdx[label] = len(m.cols)
	m.cols = append(m.cols, label)
	return len(m.cols) - 1
}

// Rows returns the row labels in their current order.
func (m *Matrix) Rows() []string { return append([]string(nil), m.rows...) }

// Cols returns the column labels in their current order.
func (m *Matrix) Cols() []string { return append([]string(nil), m.cols...) }

// Value returns the mean for (row, col), or 0 when the cell has no
// observations or the labels are unknown.
func (m *Matrix) Value(row, col string) float64 {
	r, okr := m.rowIdx[row]
	c, okc := m.colIdx[col]
	if !okr || !okc {
		return 0
	}
	cl := m.cells[[2]int{r, c}]
	if cl == nil || cl.n == 0 {
		return 0
	}
	return cl.sum / float64(cl.n)
}

// Flatten returns every observed (row, col, mean) triple, row-major in axis
// order. Re-flattening a pivot reproduces exactly the observed pairs.
func (m *Matrix) Flatten() []Cell {
	out := make([]Cell, 0, len(m.cells))
	for r, row := range m.rows {
		for c, col := range m.cols {
			cl := m.cells[[2]int{r, c}]
			if cl == nil || cl.n == 0 {
				continue
			}
			out = append(out, Cell{Row: row, Col: col, Mean: cl.sum / float64(cl.n)})
		}
	}
	return out
}

// Sort orders both axes lexicographically, for stable exported artifacts.
func (m *Matrix) Sort() {
	sortAxis(m.rows, m.rowIdx, m.cells, 0)
	sortAxis(m.cols, m.colIdx, m.cells, 1)
}

func sortAxis(labels []string, index map[string]int, cells map[[2]int]*cell, axis int) {
	sort.Strings(labels)

	remap := make(map[int]int, len(labels))
	for newIdx, label := range labels {
		remap[index[label]] = newIdx
		index[label] = newIdx
	}

	moved := make(map[[2]int]*cell, len(cells))
	for key, cl := range cells {
		key[axis] = remap[key[axis]]
		moved[key] = cl
	}
	for k := range cells {
		delete(cells, k)
	}
	for k, cl := range moved {
		cells[k] = cl
	}
}

// WriteCSV renders the matrix with the row dimension as the first column and
// one column per column label. Empty cells render as 0.
func (m *Matrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{m.RowName}, m.cols...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range m.rows {
		line := make([]string, 0, len(m.cols)+1)
		line = append(line, row)
		for _, col := range m.cols {
			line = append(line, strconv.FormatFloat(m.Value(row, col), 'g', -1, 64))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
