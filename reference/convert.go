// SPDX-License-Identifier: MIT

package reference

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/matrix"
)

// toDense validates the shape of m and copies it into a *matrix.Dense.
// name is the request field the matrix came from.
func toDense(name string, m compute.Matrix) (*matrix.Dense, error) {
	d, err := matrix.NewFromRows(m)
	switch {
	case err == nil:
		return d, nil
	case errors.Is(err, matrix.ErrInvalidDimensions):
		return nil, fmt.Errorf("%w: %s is empty", compute.ErrDimensionMismatch, name)
	case errors.Is(err, matrix.ErrRagged):
		return nil, fmt.Errorf("%w: %s has rows of unequal length", compute.ErrDimensionMismatch, name)
	case errors.Is(err, matrix.ErrNaNInf):
		return nil, fmt.Errorf("%w: %s holds a value that is not a finite number", compute.ErrParse, name)
	default:
		return nil, fmt.Errorf("%w: %s", compute.ErrDimensionMismatch, name)
	}
}

// matrixResult converts a kernel result into a compute.Result.
// Kernels only ever return *matrix.Dense.
func matrixResult(m matrix.Matrix) compute.Result {
	return compute.MatrixResult(m.(*matrix.Dense).ToRows())
}

func shape(m matrix.Matrix) string {
	return fmt.Sprintf("%dx%d", m.Rows(), m.Cols())
}
