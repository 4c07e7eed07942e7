// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package robust implements the ISO 13528:2022 Annex C Algorithm A
// iterative robust location/scale estimator: a Huber-style M-estimator
// that down-weights outliers via 1.5σ winsorization rather than
// discarding them. Non-convergence within the iteration budget is
// reported through the returned Result, not through an error — it is a
// numerical state, not a failure (spec §4.1, §7).
package robust

import (
	"errors"
	"math"

	"github.com/ptlab/iso13528/numeric"
)

// Scale consistency constants fixed by spec §4.1/§9(a). Implementers
// must not silently substitute alternative consistency corrections.
const (
	madConsistency         = 1.4826 // scales MAD to be consistent for a normal distribution
	winsorCap              = 1.5    // δ = winsorCap · σ
	winsorScaleConsistency = 1.134  // restores consistency to σ under 1.5σ winsorization
)

// ErrEmptyInput is returned when AlgorithmA is called with a zero-length
// vector — a shape error, not a numerical one.
var ErrEmptyInput = errors.New("robust: empty input vector")

// ErrNonFinite is returned when x contains a NaN or infinite value.
var ErrNonFinite = errors.New("robust: non-finite value in input vector")

// Result is the outcome of running Algorithm A to completion (converged
// or exhausted), matching spec §4.1's output tuple.
type Result struct {
	Mu         float64 // μ*, the robust location estimate (x_pt for method A)
	Sigma      float64 // σ*, the robust scale estimate
	PUsed      int      // number of points retained; Algorithm A never discards any
	Iterations int      // number of iterations actually run
	Converged  bool
}

// Params bounds the iteration: Tolerance must be > 0 and MaxIterations
// must be ≥ 1 (spec §6.1 defaults: 1e-5 and 50).
type Params struct {
	Tolerance     float64
	MaxIterations int
}

// DefaultParams returns the spec-mandated defaults (tolerance 1e-5, 50
// iterations).
func DefaultParams() Params {
	return Params{Tolerance: 1e-5, MaxIterations: 50}
}

// AlgorithmA computes the robust mean and standard deviation of x by the
// ISO 13528:2022 Annex C iterative procedure (spec §4.1).
//
// AlgorithmA returns an error only for input-shape problems (empty
// vector, non-finite entry); numerical non-convergence is reported via
// Result.Converged == false, never as an error.
func AlgorithmA(x []float64, p Params) (Result, error) {
	n := len(x)
	if n == 0 {
		return Result{}, ErrEmptyInput
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, ErrNonFinite
		}
	}
	if p.Tolerance <= 0 {
		panic("robust: tolerance must be positive")
	}
	if p.MaxIterations < 1 {
		panic("robust: max iterations must be at least 1")
	}

	if n == 1 {
		return Result{Mu: x[0], Sigma: 0, PUsed: 1, Iterations: 0, Converged: true}, nil
	}

	mu0 := numeric.Median(x)
	sigma0 := madConsistency * numeric.MAD(x, mu0)

	if sigma0 == 0 {
		// More than half the values equal the median: no spread to
		// iterate on. Reported, not an error (spec §4.1).
		return Result{Mu: mu0, Sigma: 0, PUsed: n, Iterations: 0, Converged: true}, nil
	}

	mu, sigma := mu0, sigma0
	xStar := make([]float64, n)
	for k := 1; k <= p.MaxIterations; k++ {
		delta := winsorCap * sigma
		lo, hi := mu-delta, mu+delta
		for i, v := range x {
			xStar[i] = clamp(v, lo, hi)
		}

		muNext := numeric.Mean(xStar)

		var ss float64
		for _, v := range xStar {
			d := v - muNext
			ss += d * d
		}
		sigmaNext := winsorScaleConsistency * math.Sqrt(ss/float64(n-1))

		converged := math.Abs(muNext-mu) <= p.Tolerance*math.Max(1, math.Abs(mu)) &&
			math.Abs(sigmaNext-sigma) <= p.Tolerance*math.Max(1, sigma)

		mu, sigma = muNext, sigmaNext

		if converged {
			return Result{Mu: mu, Sigma: sigma, PUsed: n, Iterations: k, Converged: true}, nil
		}
		if k == p.MaxIterations {
			return Result{Mu: mu, Sigma: sigma, PUsed: n, Iterations: k, Converged: false}, nil
		}
	}
	// Unreachable: the loop above always returns on its final iteration.
	panic("robust: algorithm A loop exited without returning")
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
