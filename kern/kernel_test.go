package kern_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"gorkhs/kern"
)

func TestGaussianGram(t *testing.T) {
	k := kern.NewGaussian(2.0, 0.5)
	x := mat.NewDense(3, 1, []float64{0, 1, 2})
	g := k.Gram(x, nil)

	r, c := g.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, k.Var(), g.At(i, i), 1e-15)
		for j := 0; j < 3; j++ {
			assert.InDelta(t, g.At(j, i), g.At(i, j), 1e-15)
		}
	}
	// k(0, 1) = variance * exp(-1 / (2 * lscale^2))
	assert.InDelta(t, 2.0*math.Exp(-2.0), g.At(0, 1), 1e-15)
}

func TestGaussianCrossGram(t *testing.T) {
	k := kern.NewGaussian(1.0, 1.0)
	x := mat.NewDense(3, 2, []float64{0, 0, 1, 0, 0, 1})
	y := mat.NewDense(2, 2, []float64{1, 1, 2, 0})

	g := k.Gram(x, y)
	r, c := g.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)

	back := k.Gram(y, x)
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, back.At(j, i), g.At(i, j), 1e-15)
		}
	}
}

func TestMatern32Gram(t *testing.T) {
	k := kern.NewMatern32(1.5, 2.0)
	x := mat.NewDense(2, 1, []float64{0, 1})
	g := k.Gram(x, nil)

	assert.InDelta(t, 1.5, g.At(0, 0), 1e-15)
	ar := math.Sqrt(3) / 2.0
	assert.InDelta(t, 1.5*(1+ar)*math.Exp(-ar), g.At(0, 1), 1e-15)
}

func TestAddAndProduct(t *testing.T) {
	k1 := kern.NewGaussian(1.0, 1.0)
	k2 := kern.NewMatern32(0.5, 1.0)
	x := mat.NewDense(3, 1, []float64{0, 0.5, 2})

	g1 := k1.Gram(x, nil)
	g2 := k2.Gram(x, nil)

	sum := kern.NewAdd(k1, k2)
	prod := kern.NewProduct(k1, k2)
	gs := sum.Gram(x, nil)
	gp := prod.Gram(x, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, g1.At(i, j)+g2.At(i, j), gs.At(i, j), 1e-15)
			assert.InDelta(t, g1.At(i, j)*g2.At(i, j), gp.At(i, j), 1e-15)
		}
	}
	assert.InDelta(t, 1.5, sum.Var(), 1e-15)
	assert.InDelta(t, 0.5, prod.Var(), 1e-15)
}

func TestCompositeFlattening(t *testing.T) {
	a := kern.NewGaussian(1, 1)
	b := kern.NewGaussian(2, 1)
	c := kern.NewMatern32(1, 1)

	left := kern.NewAdd(kern.NewAdd(a, b), c)
	right := kern.NewAdd(a, kern.NewAdd(b, c))
	assert.True(t, left.Equal(right))
}

func TestKernelEquality(t *testing.T) {
	assert.True(t, kern.NewGaussian(1, 2).Equal(kern.NewGaussian(1, 2)))
	assert.False(t, kern.NewGaussian(1, 2).Equal(kern.NewGaussian(1, 3)))
	assert.False(t, kern.NewGaussian(1, 2).Equal(kern.NewMatern32(1, 2)))
	assert.False(t, kern.NewAdd(kern.NewGaussian(1, 2), kern.NewMatern32(1, 1)).
		Equal(kern.NewProduct(kern.NewGaussian(1, 2), kern.NewMatern32(1, 1))))
}
