// Package rkhs implements finite-rank RKHS algebra: feature vectors
// represented as weighted combinations of kernel evaluations at a finite
// point set, and the linear operators (covariance, conditional mean,
// conditional density, transfer) acting on them.
package rkhs

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"gorkhs/kern"
)

// Vec is a batch of RKHS elements sharing one underlying representation.
type Vec interface {
	// Len is the number of elements in the batch.
	Len() int

	// Inner computes the matrix of pairwise inner products with y. A nil
	// y is interpreted as the receiver itself.
	Inner(y Vec) *mat.Dense

	// InnerDiag computes only the per-element self inner products.
	InnerDiag() *mat.VecDense
}

// Inner computes inner products between RKHS vectors. With full set the
// whole x-by-y matrix is returned and a nil y defaults to x. With full
// unset, y must be nil and only the per-element self inner products of x
// are computed.
func Inner(x, y Vec, full bool) mat.Matrix {
	if !full {
		if y != nil {
			panic(ErrAmbiguousInput)
		}
		return x.InnerDiag()
	}
	return x.Inner(y)
}

// grouping selects how a flat point set is partitioned into elements.
type grouping int

const (
	simple   grouping = iota // every point is its own element
	balanced                 // consecutive groups of a fixed size
	ragged                   // explicit group boundaries
)

// FiniteVec is an RKHS feature vector over input space points with
// associated prefactors. This is the simplest possible vector.
type FiniteVec struct {
	kernel     kern.Kernel
	points     *mat.Dense
	prefactors []float64

	grouping  grouping
	groupSize int   // balanced only
	rowSplits []int // ragged only
}

var _ Vec = (*FiniteVec)(nil) // Check that FiniteVec respects the Vec interface.

// NewFiniteVec constructs an ungrouped vector: one RKHS element per point.
// Nil prefactors default to the uniform weight 1/n.
func NewFiniteVec(kernel kern.Kernel, points *mat.Dense, prefactors []float64) *FiniteVec {
	n, _ := points.Dims()
	if prefactors == nil {
		prefactors = uniform(n, float64(n))
	}
	if len(prefactors) != n {
		panic(ErrLengthMismatch)
	}
	return &FiniteVec{
		kernel:     kernel,
		points:     points,
		prefactors: prefactors,
		grouping:   simple,
	}
}

// NewBalanced constructs a vector whose elements are consecutive groups of
// groupSize points. Nil prefactors default to the weight 1/groupSize.
func NewBalanced(kernel kern.Kernel, points *mat.Dense, prefactors []float64, groupSize int) *FiniteVec {
	n, _ := points.Dims()
	if groupSize <= 0 || n%groupSize != 0 {
		panic(ErrGroupSize)
	}
	if prefactors == nil {
		prefactors = uniform(n, float64(groupSize))
	}
	if len(prefactors) != n {
		panic(ErrLengthMismatch)
	}
	return &FiniteVec{
		kernel:     kernel,
		points:     points,
		prefactors: prefactors,
		grouping:   balanced,
		groupSize:  groupSize,
	}
}

// NewRagged constructs a vector with explicit group boundaries: element g
// spans the points rowSplits[g] up to rowSplits[g+1]. Nil prefactors
// default to 1/size of the containing group.
func NewRagged(kernel kern.Kernel, points *mat.Dense, prefactors []float64, rowSplits []int) *FiniteVec {
	n, _ := points.Dims()
	if len(rowSplits) < 2 || rowSplits[0] != 0 || rowSplits[len(rowSplits)-1] != n {
		panic(ErrRowSplits)
	}
	for g := 1; g < len(rowSplits); g++ {
		if rowSplits[g] <= rowSplits[g-1] {
			panic(ErrRowSplits)
		}
	}
	if prefactors == nil {
		prefactors = make([]float64, n)
		for g := 0; g+1 < len(rowSplits); g++ {
			size := float64(rowSplits[g+1] - rowSplits[g])
			for i := rowSplits[g]; i < rowSplits[g+1]; i++ {
				prefactors[i] = 1 / size
			}
		}
	}
	if len(prefactors) != n {
		panic(ErrLengthMismatch)
	}
	return &FiniteVec{
		kernel:     kernel,
		points:     points,
		prefactors: prefactors,
		grouping:   ragged,
		rowSplits:  rowSplits,
	}
}

// NewElem constructs a vector holding a single RKHS element that spans the
// whole point set. Nil prefactors default to 1/n.
func NewElem(kernel kern.Kernel, points *mat.Dense, prefactors []float64) *FiniteVec {
	n, _ := points.Dims()
	return NewBalanced(kernel, points, prefactors, n)
}

// NewElemFromEstimate solves for non-negative prefactors of a single RKHS
// element by density or support estimation over the given points.
func NewElemFromEstimate(kernel kern.Kernel, points *mat.Dense, estimate Estimate) (*FiniteVec, error) {
	prefactors, err := DistrEstimate(kernel, points, estimate)
	if err != nil {
		return nil, err
	}
	return NewElem(kernel, points, prefactors), nil
}

func uniform(n int, denom float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / denom
	}
	return out
}

// Kernel returns the shared kernel capability.
func (v *FiniteVec) Kernel() kern.Kernel { return v.kernel }

// Points returns the in-space points, one row per point.
func (v *FiniteVec) Points() *mat.Dense { return v.points }

// Prefactors returns the per-point weights.
func (v *FiniteVec) Prefactors() []float64 { return v.prefactors }

// NumPoints returns the number of underlying in-space points.
func (v *FiniteVec) NumPoints() int {
	n, _ := v.points.Dims()
	return n
}

func (v *FiniteVec) Len() int {
	n, _ := v.points.Dims()
	switch v.grouping {
	case balanced:
		return n / v.groupSize
	case ragged:
		return len(v.rowSplits) - 1
	}
	return n
}

// splits returns the group boundaries as ragged-style offsets. Only valid
// for grouped vectors.
func (v *FiniteVec) splits() []int {
	if v.grouping == ragged {
		return v.rowSplits
	}
	groups := v.Len()
	out := make([]int, groups+1)
	for g := range out {
		out[g] = g * v.groupSize
	}
	return out
}

// reduceGram scales the Gram matrix by the prefactors along the given axis
// and sums the entries of each group, leaving one row (axis 0) or column
// (axis 1) per element. Ungrouped vectors only scale.
func (v *FiniteVec) reduceGram(gram *mat.Dense, axis int) *mat.Dense {
	r, c := gram.Dims()
	scaled := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if axis == 0 {
				scaled.Set(i, j, gram.At(i, j)*v.prefactors[i])
			} else {
				scaled.Set(i, j, gram.At(i, j)*v.prefactors[j])
			}
		}
	}
	if v.grouping == simple {
		return scaled
	}
	splits := v.splits()
	groups := len(splits) - 1
	var out *mat.Dense
	if axis == 0 {
		out = mat.NewDense(groups, c, nil)
		for g := 0; g < groups; g++ {
			for i := splits[g]; i < splits[g+1]; i++ {
				for j := 0; j < c; j++ {
					out.Set(g, j, out.At(g, j)+scaled.At(i, j))
				}
			}
		}
	} else {
		out = mat.NewDense(r, groups, nil)
		for g := 0; g < groups; g++ {
			for j := splits[g]; j < splits[g+1]; j++ {
				for i := 0; i < r; i++ {
					out.Set(i, g, out.At(i, g)+scaled.At(i, j))
				}
			}
		}
	}
	return out
}

// Inner computes the pairwise inner products with y: the Gram matrix of
// the two point sets, reduced along axis 0 by the receiver and along axis
// 1 by y. Both vectors must share the same kernel.
func (v *FiniteVec) Inner(y Vec) *mat.Dense {
	w := v
	if y != nil {
		other, ok := y.(*FiniteVec)
		if !ok {
			panic(ErrVecMismatch)
		}
		if !v.kernel.Equal(other.kernel) {
			panic(ErrKernelMismatch)
		}
		w = other
	}
	gram := v.kernel.Gram(v.points, w.points)
	return w.reduceGram(v.reduceGram(gram, 0), 1)
}

// InnerDiag computes the per-element self inner products: the diagonal of
// the fully reduced self Gram matrix.
func (v *FiniteVec) InnerDiag() *mat.VecDense {
	full := v.reduceGram(v.reduceGram(v.kernel.Gram(v.points, nil), 0), 1)
	out := mat.NewVecDense(v.Len(), nil)
	for i := 0; i < v.Len(); i++ {
		out.SetVec(i, full.At(i, i))
	}
	return out
}

// Normalized returns a copy with normalized element weights: grouped
// prefactors are rescaled to sum to one within each group, ungrouped
// prefactors are replaced by ones.
func (v *FiniteVec) Normalized() *FiniteVec {
	upd := make([]float64, len(v.prefactors))
	if v.grouping == simple {
		for i := range upd {
			upd[i] = 1
		}
		return v.Updated(upd)
	}
	splits := v.splits()
	for g := 0; g+1 < len(splits); g++ {
		sum := floats.Sum(v.prefactors[splits[g]:splits[g+1]])
		for i := splits[g]; i < splits[g+1]; i++ {
			upd[i] = v.prefactors[i] / sum
		}
	}
	return v.Updated(upd)
}

// Updated returns a copy with the same points, grouping and kernel but new
// prefactors.
func (v *FiniteVec) Updated(prefactors []float64) *FiniteVec {
	if len(prefactors) != len(v.prefactors) {
		panic(ErrLengthMismatch)
	}
	out := *v
	out.prefactors = prefactors
	return &out
}

// MeanVar treats each element as a weighted empirical distribution over
// its points and returns the per-element mean and variance, one row per
// element and one column per input dimension. The variance is the kernel's
// pointwise variance plus the spread of the point locations (law of total
// variance).
func (v *FiniteVec) MeanVar() (mean, variance *mat.Dense) {
	mean = v.reduceGram(v.points, 0)
	n, d := v.points.Dims()
	sq := mat.NewDense(n, d, nil)
	sq.MulElem(v.points, v.points)
	// variance = k.var + (E[x^2] - mean^2)
	variance = v.reduceGram(sq, 0)
	g, _ := mean.Dims()
	for i := 0; i < g; i++ {
		for j := 0; j < d; j++ {
			m := mean.At(i, j)
			variance.Set(i, j, v.kernel.Var()+variance.At(i, j)-m*m)
		}
	}
	return mean, variance
}

// Sum drops the grouping structure: the same weighted points as an
// ungrouped vector, one element per point.
func (v *FiniteVec) Sum() *FiniteVec {
	return NewFiniteVec(v.kernel, v.points, v.prefactors)
}

// At returns element i as its own vector: the i-th point for ungrouped
// vectors, the i-th group otherwise.
func (v *FiniteVec) At(i int) *FiniteVec {
	_, d := v.points.Dims()
	switch v.grouping {
	case balanced:
		start, stop := i*v.groupSize, (i+1)*v.groupSize
		return NewBalanced(v.kernel,
			v.points.Slice(start, stop, 0, d).(*mat.Dense),
			v.prefactors[start:stop], v.groupSize)
	case ragged:
		start, stop := v.rowSplits[i], v.rowSplits[i+1]
		return NewRagged(v.kernel,
			v.points.Slice(start, stop, 0, d).(*mat.Dense),
			v.prefactors[start:stop], []int{0, stop - start})
	}
	return NewFiniteVec(v.kernel,
		v.points.Slice(i, i+1, 0, d).(*mat.Dense),
		v.prefactors[i:i+1])
}

// Evaluate evaluates the represented functions at the given points,
// returning one row per element and one column per query point.
func (v *FiniteVec) Evaluate(points *mat.Dense) *mat.Dense {
	n, _ := points.Dims()
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	return v.Inner(NewFiniteVec(v.kernel, points, ones))
}

// Equal reports whether w has the same grouping, prefactors, points and
// kernel.
func (v *FiniteVec) Equal(w *FiniteVec) bool {
	return v.grouping == w.grouping &&
		v.groupSize == w.groupSize &&
		slices.Equal(v.rowSplits, w.rowSplits) &&
		floats.Equal(v.prefactors, w.prefactors) &&
		mat.Equal(v.points, w.points) &&
		v.kernel.Equal(w.kernel)
}

// UnsignedProjection projects a single signed element onto the cone of
// non-negative-weight representations over the same kernel. With
// optimizeSupport set, the point locations are optimized together with
// the weights.
func (v *FiniteVec) UnsignedProjection(optimizeSupport bool) (*FiniteVec, error) {
	if v.Len() != 1 {
		panic(ErrNotSingleElement)
	}
	return UnsignedProjection(v.points, v.prefactors, v.kernel, optimizeSupport)
}
