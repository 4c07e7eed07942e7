// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptstat

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"
)

// TestCRMMethod is scenario E4.
func TestCRMMethod(t *testing.T) {
	ds := Dataset{
		IDs: []string{"L1", "L2", "L3", "L4", "L5"},
		X:   []float64{12.1, 12.5, 12.3, 12.0, 12.4},
	}
	req := Request{
		Method:              MethodCRM,
		Dataset:             ds,
		SuppliedValue:       f(12.34),
		SuppliedUncertainty: f(0.05),
		SigmaPt:             f(0.1),
	}
	rec, err := Compute(req, nil)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if rec.XPt != 12.34 {
		t.Errorf("x_pt = %v, want 12.34", rec.XPt)
	}
	if rec.UXPt != 0.05 {
		t.Errorf("u(x_pt) = %v, want 0.05", rec.UXPt)
	}
	if rec.SStar != nil || rec.PUsed != nil || rec.Iterations != nil {
		t.Errorf("s_star/p_used/iterations should be absent for CRM, got %+v/%+v/%+v", rec.SStar, rec.PUsed, rec.Iterations)
	}
	for i, id := range ds.IDs {
		want := (ds.X[i] - 12.34) / 0.1
		if rec.ZScores[i] == nil || math.Abs(*rec.ZScores[i]-want) > 1e-12 {
			t.Errorf("z[%s] = %v, want %v", id, rec.ZScores[i], want)
		}
	}
}

func TestMissingMethodInput(t *testing.T) {
	ds := Dataset{IDs: []string{"L1"}, X: []float64{1}}
	_, err := Compute(Request{Method: MethodFormulation, Dataset: ds}, nil)
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != KindMissingMethodInput {
		t.Fatalf("err = %v, want MissingMethodInput", err)
	}
}

func TestInvalidSigmaPt(t *testing.T) {
	ds := Dataset{IDs: []string{"L1", "L2"}, X: []float64{1, 2}}
	_, err := Compute(Request{Method: MethodA, Dataset: ds, SigmaPt: f(-1)}, nil)
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != KindInvalidParameter {
		t.Fatalf("err = %v, want InvalidParameter", err)
	}
}

func TestAlgorithmAMethodEndToEnd(t *testing.T) {
	ds := Dataset{
		IDs: []string{"a", "b", "c", "d", "e"},
		X:   []float64{9.8, 9.9, 10.0, 10.1, 10.2},
	}
	rec, err := Compute(Request{Method: MethodA, Dataset: ds, SigmaPt: f(0.1)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Converged == nil || !*rec.Converged {
		t.Errorf("converged = %v, want true", rec.Converged)
	}
	if math.Abs(rec.XPt-10.0) > 1e-6 {
		t.Errorf("x_pt = %v, want ~10.0", rec.XPt)
	}
}

// TestResultsRecordJSONRoundTrip verifies the serialization boundary
// documented in spec §3/§6.2.
func TestResultsRecordJSONRoundTrip(t *testing.T) {
	ds := Dataset{
		IDs: []string{"L1", "L2", "L3"},
		X:   []float64{10, 11, 9},
		U:   []*float64{f(0.1), nil, f(0.2)},
	}
	rec, err := Compute(Request{Method: MethodA, Dataset: ds, SigmaPt: f(0.15)}, []DroppedRow{{Index: 7, Reason: "test"}})
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got ResultsRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(rec, &got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestDeterminism is property 1 of spec §8.
func TestDeterminism(t *testing.T) {
	ds := Dataset{
		IDs: []string{"a", "b", "c", "d", "e", "f", "g"},
		X:   []float64{3.1, 5.2, 4.4, 3.9, 6.0, 4.1, 100.0},
	}
	req := Request{Method: MethodA, Dataset: ds, SigmaPt: f(1.0)}
	a, err := Compute(req, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compute(req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("two runs on identical input diverged (-first +second):\n%s", diff)
	}
}

// TestPermutationEquivariance is property 2 of spec §8.
func TestPermutationEquivariance(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	x := []float64{3.1, 5.2, 4.4, 3.9, 6.0, 4.1, 100.0}
	u := []*float64{f(0.1), f(0.2), nil, f(0.15), f(0.3), nil, f(1.0)}

	base, err := Compute(Request{
		Method:  MethodA,
		Dataset: Dataset{IDs: ids, X: x, U: u},
		SigmaPt: f(1.0),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	rnd := rand.New(rand.NewSource(42))
	perm := rnd.Perm(len(ids))

	pIDs := make([]string, len(ids))
	pX := make([]float64, len(ids))
	pU := make([]*float64, len(ids))
	for i, p := range perm {
		pIDs[i] = ids[p]
		pX[i] = x[p]
		pU[i] = u[p]
	}

	permuted, err := Compute(Request{
		Method:  MethodA,
		Dataset: Dataset{IDs: pIDs, X: pX, U: pU},
		SigmaPt: f(1.0),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(permuted.XPt-base.XPt) > 1e-9 {
		t.Errorf("x_pt changed under permutation: %v != %v", permuted.XPt, base.XPt)
	}
	if math.Abs(permuted.UXPt-base.UXPt) > 1e-9 {
		t.Errorf("u(x_pt) changed under permutation: %v != %v", permuted.UXPt, base.UXPt)
	}
	if *permuted.Iterations != *base.Iterations || *permuted.Converged != *base.Converged {
		t.Errorf("iteration/convergence state changed under permutation")
	}

	for i, p := range perm {
		if permuted.IDs[i] != base.IDs[p] {
			t.Fatalf("ids[%d] = %s, want %s", i, permuted.IDs[i], base.IDs[p])
		}
		if permuted.Results[i] != base.Results[p] {
			t.Fatalf("results[%d] = %v, want %v", i, permuted.Results[i], base.Results[p])
		}
		baseZ, permZ := base.ZScores[p], permuted.ZScores[i]
		if (baseZ == nil) != (permZ == nil) {
			t.Fatalf("z-score presence mismatch at permuted index %d", i)
		}
		if baseZ != nil && math.Abs(*baseZ-*permZ) > 1e-9 {
			t.Fatalf("z-score mismatch at permuted index %d: %v != %v", i, *permZ, *baseZ)
		}
	}
}
