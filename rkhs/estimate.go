package rkhs

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"gorkhs/kern"
	"gorkhs/optim"
	"gorkhs/utils"
)

// Estimate selects the objective used when solving for the prefactors of
// a density or support estimate.
type Estimate string

const (
	// EstimateSupport drives the estimate's evaluation at every support
	// point toward the constant one.
	EstimateSupport Estimate = "support"

	// EstimateDensity minimizes the negative log likelihood of the points
	// under the candidate density.
	EstimateDensity Estimate = "density"
)

// DistrEstimate solves for non-negative prefactors representing a density
// or support estimate over the given points. The returned prefactors are
// normalized to sum to one. A solver that does not converge is reported as
// ErrNoConvergence; retry with a different initialization in that case.
func DistrEstimate(kernel kern.Kernel, points *mat.Dense, estimate Estimate) ([]float64, error) {
	g := kernel.Gram(points, nil)
	n, _ := g.Dims()

	var cost optim.Cost
	var grad optim.Grad
	switch estimate {
	case EstimateSupport:
		// cost = sum |f.G - 1|
		cost = func(f []float64) float64 {
			s := 0.0
			for _, e := range evalAt(g, f) {
				s += math.Abs(e - 1)
			}
			return s
		}
		grad = func(dst, f []float64) {
			e := evalAt(g, f)
			for i := range dst {
				dst[i] = 0
				for j, ej := range e {
					if ej > 1 {
						dst[i] += g.At(i, j)
					} else if ej < 1 {
						dst[i] -= g.At(i, j)
					}
				}
			}
		}
	case EstimateDensity:
		// cost = -sum log(f.G)
		cost = func(f []float64) float64 {
			s := 0.0
			for _, e := range evalAt(g, f) {
				s -= math.Log(e)
			}
			return s
		}
		grad = func(dst, f []float64) {
			e := evalAt(g, f)
			for i := range dst {
				dst[i] = 0
				for j, ej := range e {
					dst[i] -= g.At(i, j) / ej
				}
			}
		}
	default:
		return nil, ErrUnknownEstimate
	}

	res, err := optim.Minimize(cost, grad, randPositive(n), nonNegative(n))
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, ErrNoConvergence
	}
	total := floats.Sum(res.X)
	out := make([]float64, n)
	for i, f := range res.X {
		out[i] = f / total
	}
	return out, nil
}

// UnsignedProjection projects a signed weighted point set onto the nearest
// non-negative-weight element in RKHS norm, returned as a normalized
// single element. With optimizeSupport set, the support point locations
// are optimized jointly with the weights; otherwise the original support
// is kept.
func UnsignedProjection(supportPoints *mat.Dense, factors []float64, kernel kern.Kernel, optimizeSupport bool) (*FiniteVec, error) {
	if !optimizeSupport {
		g := kernel.Gram(supportPoints, nil)
		n := len(factors)
		// c = 2 * factors.G
		c := evalAt(g, factors)
		floats.Scale(2, c)
		// cost = f.G.f - c.f
		cost := func(f []float64) float64 {
			return floats.Dot(f, evalAt(g, f)) - floats.Dot(c, f)
		}
		grad := func(dst, f []float64) {
			// grad = 2 * G.f - c (G is symmetric)
			e := evalAt(g, f)
			for i := range dst {
				dst[i] = 2*e[i] - c[i]
			}
		}
		res, err := optim.Minimize(cost, grad, randPositive(n), nonNegative(n))
		if err != nil {
			return nil, err
		}
		return NewElem(kernel, supportPoints, res.X).Normalized(), nil
	}

	n, d := supportPoints.Dims()
	// The parameter vector packs the weights followed by the flattened
	// candidate support points.
	cost := func(param []float64) float64 {
		f := param[:n]
		candidates := mat.NewDense(n, d, param[n:])
		g := kernel.Gram(candidates, nil)
		gMix := kernel.Gram(candidates, supportPoints)
		// c = 2 * G_mix.factors
		c := make([]float64, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				c[i] += 2 * gMix.At(i, j) * factors[j]
			}
		}
		return floats.Dot(f, evalAt(g, f)) - floats.Dot(c, f)
	}
	init := utils.ConcatVecs(n+n*d,
		mat.NewVecDense(n, randPositive(n)),
		mat.NewVecDense(n*d, flatten(supportPoints)))
	bounds := nonNegative(n)
	for i := 0; i < n*d; i++ {
		bounds = append(bounds, optim.Unbounded)
	}
	res, err := optim.Minimize(cost, nil, init.RawVector().Data, bounds)
	if err != nil {
		return nil, err
	}
	points := mat.NewDense(n, d, res.X[n:])
	return NewElem(kernel, points, res.X[:n]).Normalized(), nil
}

// evalAt computes the evaluations e_j = sum_i f_i G_ij.
func evalAt(g *mat.Dense, f []float64) []float64 {
	r, c := g.Dims()
	out := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[j] += f[i] * g.At(i, j)
		}
	}
	return out
}

// randPositive draws a strictly positive starting point.
func randPositive(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rand.Float64() + 1e-4
	}
	return out
}

// nonNegative builds the f >= 0 bound set.
func nonNegative(n int) []optim.Bound {
	out := make([]optim.Bound, n)
	for i := range out {
		out[i] = optim.NonNegative
	}
	return out
}

// flatten returns the row-major data of m.
func flatten(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}
