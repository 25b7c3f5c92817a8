// SPDX-License-Identifier: MIT

package sparse

import (
	"math"
	"sort"
)

// DefaultPivotThreshold is the relative magnitude the preferred (diagonal)
// pivot must reach against the largest candidate in its column.
const DefaultPivotThreshold = 0.1

// FactorOption configures Factorize.
type FactorOption func(*factorOptions)

type factorOptions struct {
	threshold float64
	ordering  Ordering
}

// WithPivotThreshold sets τ in (0, 1]. τ = 1 is classic partial pivoting;
// smaller values keep the fill-reducing order more often. Out-of-range
// values are ignored.
func WithPivotThreshold(tau float64) FactorOption {
	return func(o *factorOptions) {
		if tau > 0 && tau <= 1 {
			o.threshold = tau
		}
	}
}

// WithOrdering selects the column elimination order.
func WithOrdering(ord Ordering) FactorOption {
	return func(o *factorOptions) { o.ordering = ord }
}

type entry struct {
	idx int
	val float64
}

// LU is a sparse factorization P·A·Q = L·U. Step k eliminated column
// pivCol[k] using original row pivRow[k].
type LU struct {
	n      int
	pivRow []int
	pivCol []int
	diag   []float64
	lower  [][]entry // per step: (original row, multiplier), ascending row
	upper  [][]entry // per step: (column, value) off the pivot, ascending column
	work   []float64
	y      []float64
}

// Dim returns the order of the factored matrix.
func (lu *LU) Dim() int { return lu.n }

// NNZ returns the stored entries of L and U, diagonal included.
func (lu *LU) NNZ() int {
	nnz := lu.n
	for k := 0; k < lu.n; k++ {
		nnz += len(lu.lower[k]) + len(lu.upper[k])
	}
	return nnz
}

// Factorize computes a sparse LU of the square matrix m.
//
// Implementation:
//   - Stage 1: compute the symmetric column order (minimum degree by default).
//   - Stage 2: right-looking elimination on hash rows. At step k the column
//     q[k] is eliminated; row q[k] is the preferred pivot when
//     |a| ≥ τ·max|a_·c|, otherwise the largest candidate (lowest row on ties).
//   - Stage 3: freeze L and U rows into sorted slices for fixed-order solves.
//
// Errors: ErrNonSquare, ErrSingular (no non-zero pivot for some column),
// ErrNaNInf (non-finite pivot or multiplier).
//
// Complexity: proportional to the fill; O(n³) worst case.
func Factorize(m *CSR, opts ...FactorOption) (*LU, error) {
	if m.rows != m.cols {
		return nil, sparseErrorf(opFactorize, ErrNonSquare)
	}
	o := factorOptions{threshold: DefaultPivotThreshold, ordering: OrderMinimumDegree}
	for _, fn := range opts {
		fn(&o)
	}

	n := m.rows
	var order []int
	switch o.ordering {
	case OrderNatural:
		order = NaturalOrder(n)
	default:
		var err error
		if order, err = MinimumDegree(m); err != nil {
			return nil, err
		}
	}

	rows := make([]map[int]float64, n)
	colRows := make([]map[int]struct{}, n)
	for i := 0; i < n; i++ {
		colRows[i] = make(map[int]struct{})
	}
	for i := 0; i < n; i++ {
		rows[i] = make(map[int]float64, m.rowPtr[i+1]-m.rowPtr[i])
		for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
			rows[i][m.colInd[p]] = m.val[p]
			colRows[m.colInd[p]][i] = struct{}{}
		}
	}

	lu := &LU{
		n:      n,
		pivRow: make([]int, n),
		pivCol: make([]int, n),
		diag:   make([]float64, n),
		lower:  make([][]entry, n),
		upper:  make([][]entry, n),
		work:   make([]float64, n),
		y:      make([]float64, n),
	}
	pivoted := make([]bool, n)
	cand := make([]int, 0, 16)

	for k, c := range order {
		cand = cand[:0]
		for i := range colRows[c] {
			if !pivoted[i] {
				cand = append(cand, i)
			}
		}
		sort.Ints(cand)

		best, bestAbs := -1, 0.0
		for _, i := range cand {
			if a := math.Abs(rows[i][c]); a > bestAbs {
				best, bestAbs = i, a
			}
		}
		if best < 0 || bestAbs == 0 {
			return nil, sparseErrorf(opFactorize, ErrSingular)
		}
		if !pivoted[c] {
			if v, ok := rows[c][c]; ok && math.Abs(v) >= o.threshold*bestAbs {
				best = c
			}
		}

		pr := rows[best]
		piv := pr[c]
		if math.IsNaN(piv) || math.IsInf(piv, 0) {
			return nil, sparseErrorf(opFactorize, ErrNaNInf)
		}
		pivoted[best] = true
		lu.pivRow[k], lu.pivCol[k], lu.diag[k] = best, c, piv

		up := make([]entry, 0, len(pr)-1)
		for j, v := range pr {
			if j != c {
				up = append(up, entry{j, v})
			}
		}
		sort.Slice(up, func(a, b int) bool { return up[a].idx < up[b].idx })
		lu.upper[k] = up

		low := make([]entry, 0, len(cand)-1)
		for _, i := range cand {
			if i == best {
				continue
			}
			ri := rows[i]
			l := ri[c] / piv
			if math.IsNaN(l) || math.IsInf(l, 0) {
				return nil, sparseErrorf(opFactorize, ErrNaNInf)
			}
			delete(ri, c)
			low = append(low, entry{i, l})
			if l == 0 {
				continue
			}
			for _, e := range up {
				if _, ok := ri[e.idx]; !ok {
					colRows[e.idx][i] = struct{}{}
				}
				ri[e.idx] -= l * e.val
			}
		}
		lu.lower[k] = low
		rows[best] = nil
		colRows[c] = nil
	}
	return lu, nil
}

// Solve computes x = A⁻¹·b. b is not modified; x may alias b.
//
// Errors: ErrDimensionMismatch, ErrNaNInf (non-finite solution).
//
// Complexity: O(nnz(L) + nnz(U)).
func (lu *LU) Solve(b, x []float64) error {
	if len(b) != lu.n || len(x) != lu.n {
		return sparseErrorf(opSolve, ErrDimensionMismatch)
	}
	copy(lu.work, b)
	for k := 0; k < lu.n; k++ {
		v := lu.work[lu.pivRow[k]]
		lu.y[k] = v
		if v == 0 {
			continue
		}
		for _, e := range lu.lower[k] {
			lu.work[e.idx] -= e.val * v
		}
	}
	for k := lu.n - 1; k >= 0; k-- {
		s := lu.y[k]
		for _, e := range lu.upper[k] {
			s -= e.val * x[e.idx]
		}
		s /= lu.diag[k]
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return sparseErrorf(opSolve, ErrNaNInf)
		}
		x[lu.pivCol[k]] = s
	}
	return nil
}

// SolveMany overwrites every column of B with A⁻¹ applied to it, sweeping
// all columns together at each elimination step. It allocates one scratch
// block per call; use SolveManyInto to reuse one.
//
// Errors: ErrDimensionMismatch, ErrNaNInf.
//
// Complexity: O((nnz(L) + nnz(U))·cols).
func (lu *LU) SolveMany(B *Dense) error {
	return lu.SolveManyInto(B, &Dense{})
}

// SolveManyInto is SolveMany with caller-owned scratch. scratch is grown
// only when too small, and on success B and scratch swap storage, so the
// pair can be reused across calls without allocating. scratch must not be B.
//
// Errors: ErrDimensionMismatch, ErrBadShape, ErrNaNInf.
func (lu *LU) SolveManyInto(B, scratch *Dense) error {
	if B.r != lu.n {
		return sparseErrorf(opSolveMany, ErrDimensionMismatch)
	}
	if scratch == nil || scratch == B {
		return sparseErrorf(opSolveMany, ErrBadShape)
	}
	m := B.c
	if m == 0 || lu.n == 0 {
		return nil
	}
	for k := 0; k < lu.n; k++ {
		src := B.data[lu.pivRow[k]*m : (lu.pivRow[k]+1)*m]
		for _, e := range lu.lower[k] {
			dst := B.data[e.idx*m : (e.idx+1)*m]
			for c, v := range src {
				dst[c] -= e.val * v
			}
		}
	}

	// Forward results stay in original-row positions; back substitution
	// writes into scratch indexed by column. Every row of scratch is
	// written before it is read.
	need := lu.n * m
	if cap(scratch.data) < need {
		scratch.data = make([]float64, need)
	}
	out := scratch.data[:need]
	for k := lu.n - 1; k >= 0; k-- {
		dst := out[lu.pivCol[k]*m : (lu.pivCol[k]+1)*m]
		copy(dst, B.data[lu.pivRow[k]*m:(lu.pivRow[k]+1)*m])
		for _, e := range lu.upper[k] {
			xr := out[e.idx*m : (e.idx+1)*m]
			for c := range dst {
				dst[c] -= e.val * xr[c]
			}
		}
		inv := lu.diag[k]
		for c := range dst {
			dst[c] /= inv
			if math.IsNaN(dst[c]) || math.IsInf(dst[c], 0) {
				return sparseErrorf(opSolveMany, ErrNaNInf)
			}
		}
	}
	B.data, scratch.data = out, B.data
	scratch.r, scratch.c = B.r, B.c
	return nil
}
