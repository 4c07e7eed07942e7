// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	ptstat "github.com/ptlab/iso13528"
)

// messageFor renders err as the single-line message spec §7 requires,
// appending Detail only in verbose mode.
func messageFor(err error) string {
	var perr *ptstat.Error
	if !errors.As(err, &perr) {
		return err.Error()
	}

	guidance := map[ptstat.Kind]string{
		ptstat.KindMissingColumn:       "check --id-col/--result-col/--uncertainty-col against the input file's header",
		ptstat.KindNegativeUncertainty: "uncertainties must be >= 0; fix the offending row or drop the column",
		ptstat.KindEmptyID:             "every participant id must be non-empty after trimming whitespace",
		ptstat.KindEmptyDataset:        "no usable rows remained after filtering; check the input file",
		ptstat.KindNonFiniteResult:     "a result coerced to +/-Inf; check for literal Inf/-Inf cells",
		ptstat.KindMissingMethodInput:  "CRM/Formulation/Expert methods require calculation.<method>.value and .uncertainty",
		ptstat.KindInvalidParameter:    "check tolerance, max_iterations, sigma_pt, and supplied_uncertainty",
		ptstat.KindRendererFailed:      "the external renderer subprocess exited non-zero",
	}

	msg := fmt.Sprintf("%s: %s", perr.Kind, guidance[perr.Kind])
	if verbose {
		msg = fmt.Sprintf("%s (%s)", msg, perr.Detail)
	}
	return msg
}

// exitCodeFor maps any error from a subcommand to a non-zero process
// exit code (spec §7: "Exit code 0 on success; non-zero on any error
// kind").
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
