// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptstat

import "github.com/ptlab/iso13528/robust"

// dispatch selects the assigned-value path named by req.Method and
// computes x_pt and u(x_pt) consistently with that path (spec §4.2).
//
// For non-consensus methods the dataset's result vector is not used to
// compute x_pt; it is retained only for scoring.
func dispatch(req Request) (AssignedValue, error) {
	switch req.Method {
	case MethodA:
		return dispatchAlgorithmA(req)
	case MethodCRM, MethodFormulation, MethodExpert:
		return dispatchSupplied(req)
	default:
		return AssignedValue{}, errInvalidParameter("method", "unrecognized method \""+string(req.Method)+"\"")
	}
}

func dispatchAlgorithmA(req Request) (AssignedValue, error) {
	params := req.AlgorithmA
	if params == (robust.Params{}) {
		params = robust.DefaultParams()
	}
	if params.Tolerance <= 0 {
		return AssignedValue{}, errInvalidParameter("algorithm_a.tolerance", "must be > 0")
	}
	if params.MaxIterations <= 0 {
		return AssignedValue{}, errInvalidParameter("algorithm_a.max_iterations", "must be > 0")
	}

	res, err := robust.AlgorithmA(req.Dataset.X, params)
	if err != nil {
		// Shape errors (empty/non-finite input) surface as InvalidParameter:
		// a Request built from a validated Dataset should never hit this,
		// but dispatch does not assume its caller validated first.
		return AssignedValue{}, errInvalidParameter("dataset", err.Error())
	}
	return algorithmAResultToAssignedValue(res), nil
}

func dispatchSupplied(req Request) (AssignedValue, error) {
	if req.SuppliedValue == nil || req.SuppliedUncertainty == nil {
		return AssignedValue{}, errMissingMethodInput(req.Method)
	}
	if *req.SuppliedUncertainty < 0 {
		return AssignedValue{}, errInvalidParameter("supplied_uncertainty", "must be >= 0")
	}
	return AssignedValue{
		XPt:    *req.SuppliedValue,
		UXPt:   *req.SuppliedUncertainty,
		Method: req.Method,
	}, nil
}
