package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	gaussian *Gaussian
	_        Kernel = gaussian // Check that Gaussian respects the Kernel interface.
)

// Gaussian is the squared-exponential kernel
// k(x, y) = variance * exp(-||x - y||^2 / (2 * lscale^2)).
type Gaussian struct {
	variance float64
	lscale   float64
}

func NewGaussian(variance, lscale float64) *Gaussian {
	return &Gaussian{
		variance: variance,
		lscale:   lscale,
	}
}

func (k *Gaussian) Gram(x, y mat.Matrix) *mat.Dense {
	if y == nil {
		y = x
	}
	n, d := x.Dims()
	m, _ := y.Dims()
	c := 2 * k.lscale * k.lscale
	out := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			sq := 0.0
			for l := 0; l < d; l++ {
				diff := x.At(i, l) - y.At(j, l)
				sq += diff * diff
			}
			out.Set(i, j, k.variance*math.Exp(-sq/c))
		}
	}
	return out
}

func (k *Gaussian) Var() float64 {
	return k.variance
}

func (k *Gaussian) Equal(other Kernel) bool {
	o, ok := other.(*Gaussian)
	return ok && *o == *k
}
