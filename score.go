// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptstat

import "math"

// Score computes the z-score and zeta-score for every participant in x
// against the assigned value xPt, its uncertainty uXPt and the
// proficiency standard deviation sigmaPt (spec §4.3).
//
// Score never fails on a per-row basis: a nil sigmaPt, a non-positive
// sigmaPt, a missing u_i, or a zero combined-uncertainty denominator
// all produce an absent (nil) score for that row rather than an error
// or a zero value.
func Score(x []float64, u []*float64, xPt, uXPt float64, sigmaPt *float64) []ScoreVector {
	n := len(x)
	out := make([]ScoreVector, n)

	var sigmaValid bool
	var sigma float64
	if sigmaPt != nil && *sigmaPt > 0 {
		sigmaValid = true
		sigma = *sigmaPt
	}

	for i, xi := range x {
		if sigmaValid {
			z := (xi - xPt) / sigma
			out[i].Z = &z
		}

		var ui *float64
		if i < len(u) {
			ui = u[i]
		}
		if ui == nil {
			continue
		}
		d2 := (*ui)*(*ui) + uXPt*uXPt
		if d2 == 0 {
			continue
		}
		zeta := (xi - xPt) / math.Sqrt(d2)
		out[i].Zeta = &zeta
	}
	return out
}
