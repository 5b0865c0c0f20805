package utils

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var ErrFactorization = errors.New("matrix factorization failed")

// Concatenate multiple vectors.
func ConcatVecs(size int, vecs ...*mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(size, nil)
	offset := 0
	for _, vec := range vecs {
		out.SliceVec(offset, offset+vec.Len()).(*mat.VecDense).CopyVec(vec)
		offset += vec.Len()
	}
	return out
}

// Identity Matrix.
func Eye(n int) *mat.Dense {
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}

// TileRows stacks count copies of m on top of each other.
func TileRows(m mat.Matrix, count int) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(count*r, c, nil)
	for i := 0; i < count; i++ {
		out.Slice(i*r, (i+1)*r, 0, c).(*mat.Dense).Copy(m)
	}
	return out
}

// PInv computes the Moore-Penrose pseudo-inverse through a thin SVD,
// dropping singular values below the usual relative cutoff.
func PInv(a mat.Matrix) *mat.Dense {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		panic(ErrFactorization)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	r, c := a.Dims()
	n := r
	if c > n {
		n = c
	}
	tol := float64(n) * s[0] * 1e-15
	d := mat.NewDense(len(s), len(s), nil)
	for i, sv := range s {
		if sv > tol {
			d.Set(i, i, 1/sv)
		}
	}
	var tmp, out mat.Dense
	tmp.Mul(&v, d)
	out.Mul(&tmp, u.T())
	return &out
}
