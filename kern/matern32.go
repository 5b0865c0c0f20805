package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	matern32 *Matern32
	_        Kernel = matern32 // Check that Matern32 respects the Kernel interface.
)

// Matern32 is the stationary Matern kernel with smoothness 3/2,
// k(x, y) = variance * (1 + a*r) * exp(-a*r) with r = ||x - y|| and
// a = sqrt(3) / lscale.
type Matern32 struct {
	variance float64
	lambda   float64
}

func NewMatern32(variance, lscale float64) *Matern32 {
	return &Matern32{
		variance: variance,
		lambda:   math.Sqrt(3) / lscale,
	}
}

func (k *Matern32) Gram(x, y mat.Matrix) *mat.Dense {
	if y == nil {
		y = x
	}
	n, d := x.Dims()
	m, _ := y.Dims()
	a := k.lambda
	out := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			sq := 0.0
			for l := 0; l < d; l++ {
				diff := x.At(i, l) - y.At(j, l)
				sq += diff * diff
			}
			ar := a * math.Sqrt(sq)
			out.Set(i, j, k.variance*(1+ar)*math.Exp(-ar))
		}
	}
	return out
}

func (k *Matern32) Var() float64 {
	return k.variance
}

func (k *Matern32) Equal(other Kernel) bool {
	o, ok := other.(*Matern32)
	return ok && *o == *k
}
