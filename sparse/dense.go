// SPDX-License-Identifier: MIT

package sparse

import "fmt"

// Dense is a row-major r×c block (offset i*c + j).
type Dense struct {
	r, c int
	data []float64
}

// NewDense returns a zero r×c block. Zero-sized blocks are allowed.
func NewDense(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, sparseErrorf(opDense, ErrBadShape)
	}
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// Rows returns the number of rows.
func (d *Dense) Rows() int { return d.r }

// Cols returns the number of columns.
func (d *Dense) Cols() int { return d.c }

// At returns the entry at (i, j).
func (d *Dense) At(i, j int) (float64, error) {
	if i < 0 || i >= d.r || j < 0 || j >= d.c {
		return 0, fmt.Errorf("Dense.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	return d.data[i*d.c+j], nil
}

// Set writes v at (i, j).
func (d *Dense) Set(i, j int, v float64) error {
	if i < 0 || i >= d.r || j < 0 || j >= d.c {
		return fmt.Errorf("Dense.Set(%d,%d): %w", i, j, ErrOutOfRange)
	}
	d.data[i*d.c+j] = v
	return nil
}

// RowView returns row i as a slice aliasing the block's storage.
func (d *Dense) RowView(i int) []float64 { return d.data[i*d.c : (i+1)*d.c] }

// Zero resets every entry to 0 without reallocating.
func (d *Dense) Zero() { clear(d.data) }

// Reshape resizes d to rows×cols, reusing storage when it is large enough.
// Contents are zeroed.
func (d *Dense) Reshape(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return sparseErrorf(opDense, ErrBadShape)
	}
	need := rows * cols
	if cap(d.data) < need {
		d.data = make([]float64, need)
	} else {
		d.data = d.data[:need]
		clear(d.data)
	}
	d.r, d.c = rows, cols
	return nil
}
