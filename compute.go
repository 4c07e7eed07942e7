// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptstat

import "github.com/ptlab/iso13528/robust"

// Request is a single round's computation request (spec §6.1): the
// requested method, the validated dataset, Algorithm A's parameters
// (zero value means "use robust.DefaultParams()"), the supplied value
// and uncertainty non-A methods require, and the optional proficiency
// standard deviation used for z-scores.
type Request struct {
	Method              Method
	Dataset             Dataset
	AlgorithmA          robust.Params
	SuppliedValue       *float64
	SuppliedUncertainty *float64
	SigmaPt             *float64
}

// Compute runs the full pipeline of spec §2 for one PT round: it
// dispatches the requested method to obtain (x_pt, u(x_pt)), scores
// every participant against that assigned value, and assembles the
// ResultsRecord that is the serialization boundary to the external
// report renderer (spec §6.2).
//
// dropped is the report produced by Validate for the table this
// request's Dataset came from; pass nil if the Dataset was constructed
// directly rather than through Validate. Compute does not revalidate
// the Dataset — it trusts the invariants documented on Dataset.
//
// Compute is a pure, single-pass function: it never mutates req.Dataset
// and allocates only the record it returns.
func Compute(req Request, dropped []DroppedRow) (*ResultsRecord, error) {
	if req.Dataset.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if req.SigmaPt != nil && *req.SigmaPt <= 0 {
		return nil, errInvalidParameter("sigma_pt", "must be > 0 when supplied")
	}

	av, err := dispatch(req)
	if err != nil {
		return nil, err
	}

	scores := Score(req.Dataset.X, req.Dataset.U, av.XPt, av.UXPt, req.SigmaPt)

	zScores := make([]*float64, len(scores))
	zetaScores := make([]*float64, len(scores))
	for i, s := range scores {
		zScores[i] = s.Z
		zetaScores[i] = s.Zeta
	}

	if dropped == nil {
		dropped = []DroppedRow{}
	}

	xPt := av.XPt
	uXPt := av.UXPt
	record := &ResultsRecord{
		Method:      av.Method,
		XPt:         xPt,
		UXPt:        uXPt,
		SStar:       av.SStar,
		PUsed:       av.PUsed,
		Iterations:  av.Iterations,
		Converged:   av.Converged,
		SigmaPt:     req.SigmaPt,
		IDs:         req.Dataset.IDs,
		Results:     req.Dataset.X,
		ZScores:     zScores,
		ZetaScores:  zetaScores,
		DroppedRows: dropped,
	}
	if len(req.Dataset.U) > 0 {
		record.Uncertainties = req.Dataset.U
	}
	return record, nil
}
