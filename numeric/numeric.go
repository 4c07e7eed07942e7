// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numeric provides the reusable numerical primitives that the
// robust estimator and scoring engine build on: order-statistic median,
// median absolute deviation, elementwise winsorization and the bounded
// Huber influence function. All functions are pure: they never mutate
// their input slices (Median and MAD work on internal copies).
package numeric

import (
	"math"
	"sort"
)

// Median returns the order-statistic median of v. v is not modified; the
// computation works on a sorted copy. Median panics if v is empty.
//
// For even-length v the median is the arithmetic mean of the two central
// order statistics, matching the convention fixed by spec §4.1.
func Median(v []float64) float64 {
	if len(v) == 0 {
		panic("numeric: zero-length slice")
	}
	s := make([]float64, len(v))
	copy(s, v)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// MAD returns the median absolute deviation of v about center:
//
//	MAD(v, center) = median(|v_i - center|)
//
// MAD panics if v is empty.
func MAD(v []float64, center float64) float64 {
	if len(v) == 0 {
		panic("numeric: zero-length slice")
	}
	dev := make([]float64, len(v))
	for i, x := range v {
		dev[i] = math.Abs(x - center)
	}
	return Median(dev)
}

// Winsorize returns a new slice with each element of v clamped to [lo, hi].
// v is not modified.
func Winsorize(v []float64, lo, hi float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = clamp(x, lo, hi)
	}
	return out
}

// HuberPsi is the Huber influence function with tuning constant c:
//
//	ψ_c(u) = clamp(u, -c, c)
//
// It is provided for extensibility beyond the winsorization Algorithm A
// performs inline (spec §4.5); Algorithm A itself does not call HuberPsi
// directly, it winsorizes with its own cap δ.
func HuberPsi(u, c float64) float64 {
	return clamp(u, -c, c)
}

// Mean returns the arithmetic mean of v. Mean panics if v is empty.
func Mean(v []float64) float64 {
	if len(v) == 0 {
		panic("numeric: zero-length slice")
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// clamp restricts x to the closed interval [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
