package kern

import (
	"gonum.org/v1/gonum/mat"
)

// Kernel produces Gram matrices between point sets. A point set is a dense
// matrix with one row per point.
type Kernel interface {
	// Gram matrix of pairwise evaluations k(x_i, y_j). A nil y is
	// interpreted as y = x.
	Gram(x, y mat.Matrix) *mat.Dense

	// Pointwise variance k(x, x).
	Var() float64

	// Equal reports whether other computes the same kernel function.
	Equal(other Kernel) bool
}
