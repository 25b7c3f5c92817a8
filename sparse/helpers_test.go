// SPDX-License-Identifier: MIT

package sparse_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/ctgflow/sparse"
	"github.com/stretchr/testify/require"
)

// mustCSR converts a dense literal, skipping zeros.
func mustCSR(t *testing.T, a [][]float64) *sparse.CSR {
	t.Helper()
	cols := 0
	if len(a) > 0 {
		cols = len(a[0])
	}
	tr, err := sparse.NewTriplets(len(a), cols, 0)
	require.NoError(t, err)
	for i, row := range a {
		for j, v := range row {
			if v != 0 {
				require.NoError(t, tr.Add(i, j, v))
			}
		}
	}
	m, err := tr.ToCSR()
	require.NoError(t, err)
	return m
}

// randomLaplacianLike builds a negative-definite, network-shaped matrix:
// a random connected graph Laplacian scaled by -1 plus a diagonal shift.
func randomLaplacianLike(rng *rand.Rand, n, extra int) [][]float64 {
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	link := func(i, j int, w float64) {
		a[i][j] += w
		a[j][i] += w
		a[i][i] -= w
		a[j][j] -= w
	}
	for v := 1; v < n; v++ {
		link(v, rng.Intn(v), 1+rng.Float64()*9)
	}
	for e := 0; e < extra; e++ {
		i, j := rng.Intn(n), rng.Intn(n)
		if i != j {
			link(i, j, 1+rng.Float64()*9)
		}
	}
	for i := 0; i < n; i++ {
		a[i][i] -= 0.5 + rng.Float64()
	}
	return a
}

func residual(a [][]float64, x, b []float64) float64 {
	worst := 0.0
	for i, row := range a {
		s := -b[i]
		for j, v := range row {
			s += v * x[j]
		}
		if s < 0 {
			s = -s
		}
		if s > worst {
			worst = s
		}
	}
	return worst
}
