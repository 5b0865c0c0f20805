package rkhs

import "errors"

var (
	// ErrLengthMismatch reports prefactors or component vectors whose
	// length differs from what the point set requires.
	ErrLengthMismatch = errors.New("prefactor and point counts differ")

	// ErrKernelMismatch reports an operation between vectors over
	// different kernels.
	ErrKernelMismatch = errors.New("vectors use different kernels")

	// ErrVecMismatch reports an inner product between incompatible vector
	// types.
	ErrVecMismatch = errors.New("vectors have incompatible types")

	// ErrAmbiguousInput reports a diagonal-only inner product combined
	// with a second vector.
	ErrAmbiguousInput = errors.New("ambiguous inputs: diagonal-only mode cannot take a second vector")

	// ErrGroupSize reports a balanced group size that does not evenly
	// divide the number of points.
	ErrGroupSize = errors.New("group size must evenly divide the number of points")

	// ErrRowSplits reports ragged group boundaries that do not increase
	// from zero to the number of points.
	ErrRowSplits = errors.New("row splits must increase from zero to the number of points")

	// ErrBasisMismatch reports a solve whose result vector is expressed
	// over different basis points than the operator output.
	ErrBasisMismatch = errors.New("result basis does not match operator output basis")

	// ErrPrefactorMismatch reports cross-covariance bases with different
	// prefactors.
	ErrPrefactorMismatch = errors.New("input and output prefactors differ")

	// ErrCombinationMismatch reports an inner product between combined
	// vectors built with different combinations.
	ErrCombinationMismatch = errors.New("combined vectors use different combinations")

	// ErrUpdateUnsupported reports a prefactor replacement on a vector
	// type that does not carry its own prefactors.
	ErrUpdateUnsupported = errors.New("prefactor replacement is not supported for combined vectors")

	// ErrNotSingleElement reports an operation that requires a vector of
	// length one.
	ErrNotSingleElement = errors.New("vector must contain a single element")

	// ErrUnknownEstimate reports an unrecognized estimation objective.
	ErrUnknownEstimate = errors.New("unknown estimate objective")

	// ErrNoConvergence reports an estimation whose solver did not
	// converge.
	ErrNoConvergence = errors.New("optimization did not converge")
)
