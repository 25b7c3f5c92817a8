// SPDX-License-Identifier: MIT

package sparse

import (
	"errors"
	"fmt"
)

// Every message is prefixed with "sparse: ..." so wrapped chains stay greppable.
var (
	// ErrBadShape is returned for negative dimensions or a scratch block
	// that aliases its input.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("sparse: matrix is not square")

	// ErrDimensionMismatch indicates incompatible operand lengths.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrSingular is returned when no usable pivot exists for a column.
	ErrSingular = errors.New("sparse: singular matrix")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("sparse: NaN or Inf encountered")
)

// Operation tags for error wrapping.
const (
	opToCSR     = "ToCSR"
	opMulVec    = "MulVec"
	opFactorize = "Factorize"
	opSolve     = "Solve"
	opSolveMany = "SolveMany"
	opDense     = "Dense"
)

// sparseErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func sparseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
