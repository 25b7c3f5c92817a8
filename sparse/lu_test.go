// SPDX-License-Identifier: MIT

package sparse_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/ctgflow/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorize_SolveRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, ord := range []sparse.Ordering{sparse.OrderMinimumDegree, sparse.OrderNatural} {
		for trial := 0; trial < 20; trial++ {
			n := 2 + rng.Intn(30)
			a := randomLaplacianLike(rng, n, n)
			lu, err := sparse.Factorize(mustCSR(t, a), sparse.WithOrdering(ord))
			require.NoError(t, err)
			require.Equal(t, n, lu.Dim())
			require.GreaterOrEqual(t, lu.NNZ(), n)

			b := make([]float64, n)
			for i := range b {
				b[i] = rng.NormFloat64()
			}
			x := make([]float64, n)
			require.NoError(t, lu.Solve(b, x))
			assert.Less(t, residual(a, x, b), 1e-9, "ordering %s trial %d", ord, trial)
		}
	}
}

func TestFactorize_ZeroDiagonalNeedsRowPivot(t *testing.T) {
	a := [][]float64{
		{0, 2, 0},
		{3, 0, 1},
		{0, 1, 4},
	}
	lu, err := sparse.Factorize(mustCSR(t, a), sparse.WithOrdering(sparse.OrderNatural))
	require.NoError(t, err)

	b := []float64{2, 4, 5}
	x := make([]float64, 3)
	require.NoError(t, lu.Solve(b, x))
	assert.InDeltaSlice(t, []float64{1, 1, 1}, x, 1e-12)
}

func TestFactorize_Indefinite(t *testing.T) {
	// Symmetric indefinite: eigenvalues of mixed sign.
	a := [][]float64{
		{1, 2, 0},
		{2, 1, 3},
		{0, 3, -1},
	}
	lu, err := sparse.Factorize(mustCSR(t, a), sparse.WithPivotThreshold(1))
	require.NoError(t, err)
	b := []float64{1, -2, 3}
	x := make([]float64, 3)
	require.NoError(t, lu.Solve(b, x))
	assert.Less(t, residual(a, x, b), 1e-12)
}

func TestFactorize_Singular(t *testing.T) {
	tests := []struct {
		name string
		a    [][]float64
	}{
		{"zero column", [][]float64{{1, 0}, {2, 0}}},
		{"dependent rows", [][]float64{{1, 2}, {2, 4}}},
		{"empty row", [][]float64{{0, 0}, {0, 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sparse.Factorize(mustCSR(t, tc.a), sparse.WithOrdering(sparse.OrderNatural))
			require.ErrorIs(t, err, sparse.ErrSingular)
		})
	}
}

func TestFactorize_NonSquare(t *testing.T) {
	_, err := sparse.Factorize(mustCSR(t, [][]float64{{1, 2}}))
	require.ErrorIs(t, err, sparse.ErrNonSquare)
}

func TestLU_SolveAliasAndMismatch(t *testing.T) {
	a := [][]float64{{-2, 1}, {1, -3}}
	lu, err := sparse.Factorize(mustCSR(t, a))
	require.NoError(t, err)

	b := []float64{1, 2}
	require.NoError(t, lu.Solve(b, b))
	assert.Less(t, residual(a, b, []float64{1, 2}), 1e-12)

	require.ErrorIs(t, lu.Solve([]float64{1}, []float64{1, 2}), sparse.ErrDimensionMismatch)
}

func TestLU_SolveManyMatchesSolve(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n, k := 25, 6
	a := randomLaplacianLike(rng, n, 2*n)
	lu, err := sparse.Factorize(mustCSR(t, a))
	require.NoError(t, err)

	B, err := sparse.NewDense(n, k)
	require.NoError(t, err)
	cols := make([][]float64, k)
	for c := 0; c < k; c++ {
		cols[c] = make([]float64, n)
		for i := 0; i < n; i++ {
			cols[c][i] = rng.NormFloat64()
			require.NoError(t, B.Set(i, c, cols[c][i]))
		}
	}
	require.NoError(t, lu.SolveMany(B))

	x := make([]float64, n)
	for c := 0; c < k; c++ {
		require.NoError(t, lu.Solve(cols[c], x))
		for i := 0; i < n; i++ {
			got, err := B.At(i, c)
			require.NoError(t, err)
			assert.InDelta(t, x[i], got, 1e-12)
		}
	}

	wrong, err := sparse.NewDense(n+1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, lu.SolveMany(wrong), sparse.ErrDimensionMismatch)
}

func TestLU_SolveManyIntoReusesScratch(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	n, k := 30, 5
	a := randomLaplacianLike(rng, n, 2*n)
	lu, err := sparse.Factorize(mustCSR(t, a))
	require.NoError(t, err)

	rhs := make([][]float64, n)
	for i := range rhs {
		rhs[i] = make([]float64, k)
		for c := range rhs[i] {
			rhs[i][c] = rng.NormFloat64()
		}
	}
	B, err := sparse.NewDense(n, k)
	require.NoError(t, err)
	fill := func() {
		for i := range rhs {
			copy(B.RowView(i), rhs[i])
		}
	}
	want, err := sparse.NewDense(n, k)
	require.NoError(t, err)
	for i := range rhs {
		copy(want.RowView(i), rhs[i])
	}
	require.NoError(t, lu.SolveMany(want))

	var scratch sparse.Dense
	fill()
	require.NoError(t, lu.SolveManyInto(B, &scratch))
	for i := 0; i < n; i++ {
		assert.Equal(t, want.RowView(i), B.RowView(i))
	}
	assert.Equal(t, n, scratch.Rows())
	assert.Equal(t, k, scratch.Cols())

	allocs := testing.AllocsPerRun(20, func() {
		fill()
		if err := lu.SolveManyInto(B, &scratch); err != nil {
			t.Fatal(err)
		}
	})
	assert.Zero(t, allocs)

	require.ErrorIs(t, lu.SolveManyInto(B, B), sparse.ErrBadShape)
	require.ErrorIs(t, lu.SolveManyInto(B, nil), sparse.ErrBadShape)
}

func TestFactorize_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomLaplacianLike(rng, 40, 80)
	m := mustCSR(t, a)
	b := make([]float64, 40)
	for i := range b {
		b[i] = rng.NormFloat64()
	}

	var first []float64
	for run := 0; run < 5; run++ {
		lu, err := sparse.Factorize(m)
		require.NoError(t, err)
		x := make([]float64, 40)
		require.NoError(t, lu.Solve(b, x))
		if first == nil {
			first = x
			continue
		}
		// Bitwise equality: elimination order never depends on map iteration.
		require.Equal(t, first, x)
	}
}
