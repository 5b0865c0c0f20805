package rkhs

import (
	"gonum.org/v1/gonum/mat"
)

// Combination merges the inner products of two component vectors into one.
// Implementations must be comparable so that two combined vectors can be
// checked for using the same combination.
type Combination interface {
	Combine(a, b *mat.Dense) *mat.Dense
}

// ElemProduct multiplies component inner products elementwise, yielding a
// product-kernel embedding without materializing the product kernel.
type ElemProduct struct{}

func (ElemProduct) Combine(a, b *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	out.MulElem(a, b)
	return out
}

// ElemSum adds component inner products elementwise, corresponding to a
// sum kernel.
type ElemSum struct{}

func (ElemSum) Combine(a, b *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	out.Add(a, b)
	return out
}

// CombVec pairs two equal-length vectors under a combination of their
// respective inner products.
type CombVec struct {
	v1, v2 Vec
	comb   Combination
}

var _ Vec = (*CombVec)(nil) // Check that CombVec respects the Vec interface.

func NewCombVec(v1, v2 Vec, comb Combination) *CombVec {
	if v1.Len() != v2.Len() {
		panic(ErrLengthMismatch)
	}
	return &CombVec{v1: v1, v2: v2, comb: comb}
}

// V1 returns the first component vector.
func (v *CombVec) V1() Vec { return v.v1 }

// V2 returns the second component vector.
func (v *CombVec) V2() Vec { return v.v2 }

func (v *CombVec) Len() int { return v.v1.Len() }

// Inner combines the component inner products. Both sides must use the
// same combination.
func (v *CombVec) Inner(y Vec) *mat.Dense {
	w := v
	if y != nil {
		other, ok := y.(*CombVec)
		if !ok {
			panic(ErrVecMismatch)
		}
		if other.comb != v.comb {
			panic(ErrCombinationMismatch)
		}
		w = other
	}
	return v.comb.Combine(v.v1.Inner(w.v1), v.v2.Inner(w.v2))
}

// InnerDiag returns the diagonal of the combined self inner products.
func (v *CombVec) InnerDiag() *mat.VecDense {
	full := v.Inner(nil)
	out := mat.NewVecDense(v.Len(), nil)
	for i := 0; i < v.Len(); i++ {
		out.SetVec(i, full.At(i, i))
	}
	return out
}

// Updated always panics: a combined vector has no prefactors of its own.
func (v *CombVec) Updated(prefactors []float64) *CombVec {
	panic(ErrUpdateUnsupported)
}
