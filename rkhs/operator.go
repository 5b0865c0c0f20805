package rkhs

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"gorkhs/kern"
	"gorkhs/utils"
)

// Op is a finite-rank linear map between RKHS vector spaces, represented
// as a coefficient matrix relating an input and an output feature basis.
type Op interface {
	InpFeat() *FiniteVec
	OutpFeat() *FiniteVec
	Matr() *mat.Dense
}

// FiniteOp directly stores an (input basis, output basis, coefficient
// matrix) triple.
type FiniteOp struct {
	inpFeat  *FiniteVec
	outpFeat *FiniteVec
	matr     *mat.Dense
}

var _ Op = (*FiniteOp)(nil) // Check that FiniteOp respects the Op interface.

func NewFiniteOp(inpFeat, outpFeat *FiniteVec, matr *mat.Dense) *FiniteOp {
	return &FiniteOp{inpFeat: inpFeat, outpFeat: outpFeat, matr: matr}
}

func (o *FiniteOp) InpFeat() *FiniteVec  { return o.inpFeat }
func (o *FiniteOp) OutpFeat() *FiniteVec { return o.outpFeat }
func (o *FiniteOp) Matr() *mat.Dense     { return o.matr }

// Len is the length of the input basis.
func (o *FiniteOp) Len() int { return o.inpFeat.Len() }

// Solve finds the element s with o applied to s equal to result. The
// result must be expressed over the operator's output basis points.
func (o *FiniteOp) Solve(result *FiniteVec) *FiniteVec {
	if !mat.Equal(o.outpFeat.points, result.points) {
		panic(ErrBasisMismatch)
	}
	// (matr @ <inp, inp>) s = result.prefactors
	var lhs mat.Dense
	lhs.Mul(o.matr, o.inpFeat.Inner(nil))
	var s mat.VecDense
	if err := s.SolveVec(&lhs, mat.NewVecDense(len(result.prefactors), result.prefactors)); err != nil {
		panic(err)
	}
	return NewElem(result.kernel, result.points, s.RawVector().Data)
}

// CrossCovOp is the cross-covariance operator between two equally weighted
// sample bases.
type CrossCovOp struct {
	FiniteOp
	regul float64
}

// NewCrossCovOp constructs the cross-covariance operator of two bases with
// matching lengths and prefactors.
func NewCrossCovOp(inpFeat, outpFeat *FiniteVec, regul float64) *CrossCovOp {
	if inpFeat.Len() != outpFeat.Len() {
		panic(ErrLengthMismatch)
	}
	if !floats.EqualApprox(inpFeat.prefactors, outpFeat.prefactors, 1e-8) {
		panic(ErrPrefactorMismatch)
	}
	n := len(inpFeat.prefactors)
	matr := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		matr.Set(i, i, (inpFeat.prefactors[i]+outpFeat.prefactors[i])/2)
	}
	return &CrossCovOp{
		FiniteOp: FiniteOp{inpFeat: inpFeat, outpFeat: outpFeat, matr: matr},
		regul:    regul,
	}
}

// CovOp is the covariance operator of a weighted sample basis. The basis
// is reweighted to unit prefactors; the original weights move into the
// coefficient matrix.
type CovOp struct {
	FiniteOp
	regul float64
	inv   *CovOp
}

func NewCovOp(inpFeat *FiniteVec, regul float64) *CovOp {
	n := len(inpFeat.prefactors)
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	feat := inpFeat.Updated(ones)
	matr := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		matr.Set(i, i, inpFeat.prefactors[i])
	}
	return &CovOp{
		FiniteOp: FiniteOp{inpFeat: feat, outpFeat: feat, matr: matr},
		regul:    regul,
	}
}

// NewCovOpFromSamples constructs the covariance operator of the empirical
// distribution over the given sample points.
func NewCovOpFromSamples(kernel kern.Kernel, points *mat.Dense, prefactors []float64, regul float64) *CovOp {
	return NewCovOp(NewFiniteVec(kernel, points, prefactors), regul)
}

// Inv returns the Tikhonov-regularized inverse operator. The inverse is
// computed once and cached, and its own Inv is the receiver.
func (o *CovOp) Inv() *CovOp {
	if o.inv == nil {
		// invGram = (<inp, inp> + regul * I)^-1
		g := o.inpFeat.Inner(nil)
		r, _ := g.Dims()
		var reg mat.Dense
		reg.Scale(o.regul, utils.Eye(r))
		g.Add(g, &reg)
		var invGram mat.Dense
		if err := invGram.Inverse(g); err != nil {
			panic(err)
		}
		// matr' = matr^2 @ invGram @ invGram
		var m2, tmp, matr mat.Dense
		m2.Mul(o.matr, o.matr)
		tmp.Mul(&m2, &invGram)
		matr.Mul(&tmp, &invGram)
		o.inv = &CovOp{
			FiniteOp: FiniteOp{inpFeat: o.inpFeat, outpFeat: o.outpFeat, matr: &matr},
			regul:    o.regul,
			inv:      o,
		}
	}
	return o.inv
}

// CondMeanOp is the conditional mean operator, mapping the embedding of a
// conditioning value to the mean embedding of the conditional
// distribution.
type CondMeanOp struct {
	FiniteOp
}

func NewCondMeanOp(inpFeat, outpFeat *FiniteVec, regul float64) *CondMeanOp {
	// Ridge term rounded to single precision.
	ridge := float64(float32(regul))
	// matr = (<inp, inp> + ridge * I)^-1
	g := inpFeat.Inner(nil)
	r, _ := g.Dims()
	var reg mat.Dense
	reg.Scale(ridge, utils.Eye(r))
	g.Add(g, &reg)
	var matr mat.Dense
	if err := matr.Inverse(g); err != nil {
		panic(err)
	}
	return &CondMeanOp{FiniteOp{inpFeat: inpFeat, outpFeat: outpFeat, matr: &matr}}
}

// CondDensityOp is the conditional density operator: the conditional mean
// operator mapped through the regularized inverse covariance of a
// reference basis, projecting mean embeddings into density space.
type CondDensityOp struct {
	FiniteOp
}

func NewCondDensityOp(inpFeat, outpFeat, refFeat *FiniteVec, regul float64) *CondDensityOp {
	op := Compose(NewCovOp(refFeat, regul).Inv(), NewCondMeanOp(inpFeat, outpFeat, regul))
	return &CondDensityOp{*op}
}

// TransferOp estimates RKHS transfer operators of a dynamical system from
// time-lagged sample pairs: the Perron-Frobenius operator by default, the
// Koopman operator with the koopman flag, and their mean-embedded variants
// with the embedded flag.
type TransferOp struct {
	FiniteOp
	embedded bool
	koopman  bool
}

func NewTransferOp(startFeat, timelaggedFeat *FiniteVec, regul float64, embedded, koopman bool) *TransferOp {
	if !startFeat.kernel.Equal(timelaggedFeat.kernel) {
		panic(ErrKernelMismatch)
	}
	n := timelaggedFeat.Len()
	var matr *mat.Dense
	if embedded != koopman {
		// matr = (<start, start> + n * regul * I)^-1
		// TODO: confirm whether the ridge term should scale with the
		// time-lagged sample count in this branch; the pinv branch below
		// scales the same way, but the two were not symmetric originally.
		g := startFeat.Inner(nil)
		r, _ := g.Dims()
		var reg mat.Dense
		reg.Scale(float64(n)*regul, utils.Eye(r))
		g.Add(g, &reg)
		matr = mat.NewDense(r, r, nil)
		if err := matr.Inverse(g); err != nil {
			panic(err)
		}
	} else {
		// matr = pinv(G_xy) @ pinv(G_x + n * regul * I) @ G_xy
		gxy := startFeat.Inner(timelaggedFeat)
		gx := startFeat.Inner(nil)
		var reg mat.Dense
		reg.Scale(float64(n)*regul, utils.Eye(n))
		gx.Add(gx, &reg)
		var tmp, prod mat.Dense
		tmp.Mul(utils.PInv(gxy), utils.PInv(gx))
		prod.Mul(&tmp, gxy)
		if koopman {
			r, c := prod.Dims()
			matr = mat.NewDense(c, r, nil)
			matr.Copy(prod.T())
		} else {
			matr = &prod
		}
	}
	inp, outp := startFeat, timelaggedFeat
	if koopman {
		inp, outp = timelaggedFeat, startFeat
	}
	return &TransferOp{
		FiniteOp: FiniteOp{inpFeat: inp, outpFeat: outp, matr: matr},
		embedded: embedded,
		koopman:  koopman,
	}
}

// Compose chains two operators into a single operator over b's input basis
// and a's output basis.
func Compose(a, b Op) *FiniteOp {
	// matr = a.matr @ <a.inp, b.outp> @ b.matr
	var tmp, matr mat.Dense
	tmp.Mul(a.Matr(), a.InpFeat().Inner(b.OutpFeat()))
	matr.Mul(&tmp, b.Matr())
	return NewFiniteOp(b.InpFeat(), a.OutpFeat(), &matr)
}

// ApplyElem applies the operator to a single RKHS element, producing a new
// element over the operator's output basis.
func ApplyElem(a Op, b Vec) *FiniteVec {
	if b.Len() != 1 {
		panic(ErrNotSingleElement)
	}
	// prefactors = a.matr @ <a.inp, b>
	var pref mat.Dense
	pref.Mul(a.Matr(), a.InpFeat().Inner(b))
	outp := a.OutpFeat()
	return NewElem(outp.kernel, outp.points, mat.Col(nil, 0, &pref))
}

// ApplyBatch applies the operator to every element of a batch, tiling the
// output basis once per element. Element g of the result lives over the
// g-th copy of the basis with the g-th column of the product matrix as its
// weights.
func ApplyBatch(a Op, b Vec) *FiniteVec {
	var pref mat.Dense
	pref.Mul(a.Matr(), a.InpFeat().Inner(b))
	r, c := pref.Dims()
	prefactors := make([]float64, 0, r*c)
	for j := 0; j < c; j++ {
		prefactors = append(prefactors, mat.Col(nil, j, &pref)...)
	}
	outp := a.OutpFeat()
	return NewBalanced(outp.kernel, utils.TileRows(outp.points, c), prefactors, r)
}
