// SPDX-License-Identifier: MIT

// Package sparse provides the compressed sparse matrices and the LU
// factorization used by the DC power-flow stages.
//
// What:
//
//   - Triplets: coordinate-form accumulator; duplicates are summed in
//     insertion order, no entry is ever dropped.
//   - CSR: immutable compressed-row matrix with MulVec and At.
//   - Dense: row-major block used for multi right-hand-side solves.
//   - Factorize: sparse LU with a fill-reducing symmetric ordering
//     (minimum degree by default) and threshold partial pivoting, so
//     indefinite matrices (negative reactances) factor as well as definite
//     ones.
//   - LU.Solve / LU.SolveMany: forward and backward substitution against a
//     single vector or a whole block of columns in one pass.
//
// Determinism:
//
//   - Pivot ties resolve to the lowest row index, the ordering breaks
//     degree ties by lowest index, and every accumulation runs in a fixed
//     order. Identical inputs give bit-identical factors and solutions.
//
// Concurrency:
//
//   - An LU owns scratch buffers; a factorization must be used by one
//     goroutine at a time.
//
// Errors:
//
//   - ErrNonSquare, ErrDimensionMismatch, ErrOutOfRange, ErrSingular,
//     ErrNaNInf, ErrBadShape. Kernels wrap them with an operation tag;
//     match with errors.Is.
package sparse
