// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"math"
	"sort"
)

// Triplets accumulates (row, col, value) entries for a rows×cols matrix.
// The zero value is not usable; call NewTriplets.
type Triplets struct {
	rows, cols int
	ri, ci     []int
	v          []float64
}

// NewTriplets returns an empty accumulator with capacity for nnzHint entries.
func NewTriplets(rows, cols, nnzHint int) (*Triplets, error) {
	if rows < 0 || cols < 0 {
		return nil, sparseErrorf(opToCSR, ErrBadShape)
	}
	if nnzHint < 0 {
		nnzHint = 0
	}
	return &Triplets{
		rows: rows,
		cols: cols,
		ri:   make([]int, 0, nnzHint),
		ci:   make([]int, 0, nnzHint),
		v:    make([]float64, 0, nnzHint),
	}, nil
}

// Add appends v at (i, j). Repeated coordinates are summed by ToCSR.
func (t *Triplets) Add(i, j int, v float64) error {
	if i < 0 || i >= t.rows || j < 0 || j >= t.cols {
		return fmt.Errorf("Triplets.Add(%d,%d): %w", i, j, ErrOutOfRange)
	}
	t.ri = append(t.ri, i)
	t.ci = append(t.ci, j)
	t.v = append(t.v, v)
	return nil
}

// Reset drops all entries and keeps the allocated capacity.
func (t *Triplets) Reset() {
	t.ri, t.ci, t.v = t.ri[:0], t.ci[:0], t.v[:0]
}

// Len returns the number of appended entries, duplicates included.
func (t *Triplets) Len() int { return len(t.v) }

// CSR is an immutable compressed sparse row matrix with sorted column
// indices and no duplicate coordinates.
type CSR struct {
	rows, cols int
	rowPtr     []int
	colInd     []int
	val        []float64
}

// ToCSR compresses the accumulated entries. Duplicates are summed in
// insertion order; explicit zeros are kept.
//
// Complexity: O(nnz log nnz).
func (t *Triplets) ToCSR() (*CSR, error) {
	for _, v := range t.v {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, sparseErrorf(opToCSR, ErrNaNInf)
		}
	}
	order := make([]int, len(t.v))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		x, y := order[a], order[b]
		if t.ri[x] != t.ri[y] {
			return t.ri[x] < t.ri[y]
		}
		return t.ci[x] < t.ci[y]
	})

	m := &CSR{rows: t.rows, cols: t.cols, rowPtr: make([]int, t.rows+1)}
	m.colInd = make([]int, 0, len(order))
	m.val = make([]float64, 0, len(order))
	lastR, lastC := -1, -1
	for _, k := range order {
		r, c := t.ri[k], t.ci[k]
		if r == lastR && c == lastC {
			m.val[len(m.val)-1] += t.v[k]
			continue
		}
		m.colInd = append(m.colInd, c)
		m.val = append(m.val, t.v[k])
		m.rowPtr[r+1]++
		lastR, lastC = r, c
	}
	for r := 0; r < t.rows; r++ {
		m.rowPtr[r+1] += m.rowPtr[r]
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *CSR) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *CSR) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.val) }

// At returns the entry at (i, j); absent entries read as 0.
func (m *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("CSR.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	p := lo + sort.SearchInts(m.colInd[lo:hi], j)
	if p < hi && m.colInd[p] == j {
		return m.val[p], nil
	}
	return 0, nil
}

// Row calls fn for every stored entry of row i in ascending column order.
func (m *CSR) Row(i int, fn func(j int, v float64)) {
	for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
		fn(m.colInd[p], m.val[p])
	}
}

// MulVec computes y = m·x into y.
func (m *CSR) MulVec(x, y []float64) error {
	if len(x) != m.cols || len(y) != m.rows {
		return sparseErrorf(opMulVec, ErrDimensionMismatch)
	}
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
			sum += m.val[p] * x[m.colInd[p]]
		}
		y[i] = sum
	}
	return nil
}

// Dense expands m into a row-major Dense. Intended for tests and small systems.
func (m *CSR) Dense() (*Dense, error) {
	d, err := NewDense(m.rows, m.cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.rows; i++ {
		for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
			d.data[i*m.cols+m.colInd[p]] = m.val[p]
		}
	}
	return d, nil
}
