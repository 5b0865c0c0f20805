// Package optim provides the bounded minimization capability used by the
// rkhs estimation routines, backed by gonum's optimizers. Box constraints
// are handled through a change of variables, so any gradient-based method
// can be used on the transformed, unconstrained problem.
package optim

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize"
)

var ErrBadInput = errors.New("initial point and bounds have different lengths")

// Bound is a per-coordinate box constraint. An infinite side is open.
type Bound struct {
	Lower float64
	Upper float64
}

var (
	// Unbounded is the open constraint (-inf, +inf).
	Unbounded = Bound{math.Inf(-1), math.Inf(1)}

	// NonNegative is the half-open constraint [0, +inf).
	NonNegative = Bound{0, math.Inf(1)}
)

// Cost evaluates the objective at x.
type Cost func(x []float64) float64

// Grad writes the objective gradient at x into dst. A nil Grad makes the
// solver use a gradient-free method.
type Grad func(dst, x []float64)

// Result of a minimization. Success reports whether the solver terminated
// with a converged status.
type Result struct {
	X       []float64
	F       float64
	Success bool
}

// Minimize finds a minimizer of cost within the given bounds, starting
// from init. Nil bounds mean fully unconstrained. The initial point must
// lie within the bounds.
//
// The transformed problem is solved with L-BFGS when a gradient is
// available and with Nelder-Mead otherwise. Non-smooth objectives can
// stall the L-BFGS line search; in that case the best point found seeds a
// Nelder-Mead restart.
func Minimize(cost Cost, grad Grad, init []float64, bounds []Bound) (*Result, error) {
	n := len(init)
	if bounds == nil {
		bounds = make([]Bound, n)
		for i := range bounds {
			bounds[i] = Unbounded
		}
	}
	if len(bounds) != n {
		return nil, ErrBadInput
	}
	tr := transform{bounds: bounds}

	x := make([]float64, n)
	problem := optimize.Problem{
		Func: func(z []float64) float64 {
			tr.apply(x, z)
			return cost(x)
		},
	}
	if grad != nil {
		gx := make([]float64, n)
		xg := make([]float64, n)
		problem.Grad = func(dst, z []float64) {
			tr.apply(xg, z)
			grad(gx, xg)
			tr.chain(dst, gx, z)
		}
	}

	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 50,
		},
		MajorIterations: 2000,
	}
	var method optimize.Method = &optimize.NelderMead{}
	if grad != nil {
		method = &optimize.LBFGS{}
	}
	res, err := optimize.Minimize(problem, tr.invert(init), settings, method)
	if err != nil && res != nil {
		restart, rerr := optimize.Minimize(problem, res.X, settings, &optimize.NelderMead{})
		if rerr == nil {
			res, err = restart, nil
		}
	}
	if res == nil {
		return nil, err
	}
	out := &Result{
		X:       make([]float64, n),
		F:       res.F,
		Success: err == nil && converged(res.Status),
	}
	tr.apply(out.X, res.X)
	return out, nil
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionThreshold,
		optimize.FunctionConvergence, optimize.StepConvergence:
		return true
	}
	return false
}

// transform maps the unconstrained solver variable z to the bounded
// objective variable x, coordinate by coordinate:
//
//	x = l + z*z            for [l, +inf)
//	x = u - z*z            for (-inf, u]
//	x = l + (u-l)*(sin(z)+1)/2  for [l, u]
type transform struct {
	bounds []Bound
}

func (t transform) apply(dst, z []float64) {
	for i, b := range t.bounds {
		lo := !math.IsInf(b.Lower, -1)
		up := !math.IsInf(b.Upper, 1)
		switch {
		case lo && up:
			dst[i] = b.Lower + (b.Upper-b.Lower)*(math.Sin(z[i])+1)/2
		case lo:
			dst[i] = b.Lower + z[i]*z[i]
		case up:
			dst[i] = b.Upper - z[i]*z[i]
		default:
			dst[i] = z[i]
		}
	}
}

// chain maps a gradient in x back to a gradient in z.
func (t transform) chain(dst, gradX, z []float64) {
	for i, b := range t.bounds {
		lo := !math.IsInf(b.Lower, -1)
		up := !math.IsInf(b.Upper, 1)
		switch {
		case lo && up:
			dst[i] = gradX[i] * (b.Upper - b.Lower) * math.Cos(z[i]) / 2
		case lo:
			dst[i] = gradX[i] * 2 * z[i]
		case up:
			dst[i] = -gradX[i] * 2 * z[i]
		default:
			dst[i] = gradX[i]
		}
	}
}

func (t transform) invert(x []float64) []float64 {
	z := make([]float64, len(x))
	for i, b := range t.bounds {
		lo := !math.IsInf(b.Lower, -1)
		up := !math.IsInf(b.Upper, 1)
		switch {
		case lo && up:
			z[i] = math.Asin(2*(x[i]-b.Lower)/(b.Upper-b.Lower) - 1)
		case lo:
			z[i] = math.Sqrt(x[i] - b.Lower)
		case up:
			z[i] = math.Sqrt(b.Upper - x[i])
		default:
			z[i] = x[i]
		}
	}
	return z
}
