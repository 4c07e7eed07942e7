// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ptstat is the statistical computation core of an
// interlaboratory proficiency-testing (PT) round analysis, implementing
// the ISO 13528:2022 contract: Algorithm A robust estimation, assigned-
// value dispatch across consensus/CRM/formulation/expert paths,
// uncertainty propagation, and z/zeta performance scoring.
//
// The package is a pure, synchronous, single-pass pipeline (see
// Compute): it owns no shared mutable state, never mutates its inputs,
// and allocates only the outputs it returns.
package ptstat

import (
	"math"

	"github.com/ptlab/iso13528/robust"
)

// Method identifies which assigned-value path produced x_pt (spec §3,
// §4.2).
type Method string

const (
	MethodA           Method = "A"
	MethodCRM         Method = "CRM"
	MethodFormulation Method = "Formulation"
	MethodExpert      Method = "Expert"
)

// Dataset is a validated, ordered sequence of participant records (spec
// §3). A Dataset produced by LoadTable/Validate satisfies the
// invariants documented there: all X are finite, all present U are
// finite and non-negative, all IDs are non-empty, and len(X) >= 1.
//
// The ordering of IDs/X/U is caller-supplied and preserved through
// scoring so per-participant outputs align by index; Dataset never
// reorders or deduplicates its rows.
type Dataset struct {
	IDs []string
	X   []float64
	// U holds per-participant standard uncertainties. A nil entry in U
	// means the corresponding participant's uncertainty is absent (not
	// zero); len(U) is either 0 (no uncertainties supplied at all) or
	// len(X).
	U []*float64
	// OriginalIndex, when produced by the validation kernel, maps row i
	// of this Dataset back to its row index in the source table, so
	// scores can be realigned with rows the kernel dropped (spec §4.4).
	// It is nil for datasets constructed directly (e.g. the caller-
	// built request of spec §6.1), which have no source table to map
	// back to.
	OriginalIndex []int
}

// Len returns the number of participant records in d.
func (d Dataset) Len() int { return len(d.X) }

// AssignedValue is the intermediate result of the method dispatcher
// (spec §3): the assigned value x_pt, its standard uncertainty, and the
// method-specific fields Algorithm A populates.
type AssignedValue struct {
	XPt        float64
	UXPt       float64
	Method     Method
	SStar      *float64 // robust scale estimate; set only for method A
	PUsed      *int      // points retained; set only for method A
	Iterations *int      // Algorithm A iterations run; set only for method A
	Converged  *bool     // Algorithm A convergence state; set only for method A
}

// ScoreVector holds one participant's performance scores (spec §3). A
// nil field means the corresponding score is absent (its defining
// denominator was zero, or an input uncertainty was missing for Zeta) —
// never a silently substituted zero.
type ScoreVector struct {
	Z    *float64
	Zeta *float64
}

// DroppedRow records a row removed by the validation kernel together
// with why (spec §4.4, §6.2).
type DroppedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ResultsRecord is the core's serialization boundary (spec §3, §6.2):
// everything the external report renderer needs for one PT round.
type ResultsRecord struct {
	// RoundID correlates this record across logs, metrics, and report
	// file names. The core never generates it (spec §3's "owned
	// exclusively by the call site" lifecycle); it is stamped by the
	// caller layer (the CLI) and otherwise left empty.
	RoundID    string  `json:"round_id,omitempty"`
	Method     Method  `json:"method"`
	XPt        float64 `json:"x_pt"`
	UXPt       float64 `json:"u_x_pt"`
	SStar      *float64 `json:"s_star,omitempty"`
	PUsed      *int     `json:"p_used,omitempty"`
	Iterations *int     `json:"iterations,omitempty"`
	Converged  *bool    `json:"converged,omitempty"`
	SigmaPt    *float64 `json:"sigma_pt,omitempty"`

	IDs           []string    `json:"ids"`
	Results       []float64   `json:"results"`
	Uncertainties []*float64  `json:"uncertainties,omitempty"`
	ZScores       []*float64  `json:"z_scores"`
	ZetaScores    []*float64  `json:"zeta_scores"`
	DroppedRows   []DroppedRow `json:"dropped_rows"`
}

// algorithmAResultToAssignedValue adapts a robust.Result into the
// AssignedValue shape method A populates (spec §4.2's uncertainty law:
// u(x_pt) = 1.25*sigma*/sqrt(p_used) when p_used >= 1, 0 when sigma* ==
// 0).
func algorithmAResultToAssignedValue(r robust.Result) AssignedValue {
	sStar := r.Sigma
	pUsed := r.PUsed
	iterations := r.Iterations
	converged := r.Converged

	var uxpt float64
	if r.Sigma == 0 {
		uxpt = 0
	} else {
		uxpt = 1.25 * r.Sigma / math.Sqrt(float64(r.PUsed))
	}

	return AssignedValue{
		XPt:        r.Mu,
		UXPt:       uxpt,
		Method:     MethodA,
		SStar:      &sStar,
		PUsed:      &pUsed,
		Iterations: &iterations,
		Converged:  &converged,
	}
}
