// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptstat

import "fmt"

// Kind is a stable identifier for a data/request-level error (spec §7).
// Unlike the panics raised by package numeric and package robust on
// programmer error (empty slices, invalid iteration parameters), a Kind error is
// raised on malformed caller input and is meant to be matched on by
// collaborators such as the CLI (spec §6.4's exit-code mapping).
type Kind string

const (
	KindMissingColumn       Kind = "MissingColumn"
	KindNegativeUncertainty Kind = "NegativeUncertainty"
	KindEmptyID             Kind = "EmptyId"
	KindEmptyDataset        Kind = "EmptyDataset"
	KindNonFiniteResult     Kind = "NonFiniteResult"
	KindMissingMethodInput  Kind = "MissingMethodInput"
	KindInvalidParameter    Kind = "InvalidParameter"
	KindRendererFailed      Kind = "RendererFailed"
)

// Error is the core's single error type: a stable Kind plus a
// human-readable Detail. The CLI collaborator maps Kind to a one-line
// message and, in verbose mode, appends Detail (spec §7).
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("ptstat: %s", e.Kind)
	}
	return fmt.Sprintf("ptstat: %s: %s", e.Kind, e.Detail)
}

// Is reports whether target is a *Error with the same Kind, so callers
// can write errors.Is(err, ptstat.ErrEmptyDataset) regardless of Detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for errors.Is matching; Detail is populated on the
// concrete error returned by validation/dispatch, not on these zero-
// detail sentinels.
var (
	ErrEmptyDataset = &Error{Kind: KindEmptyDataset}
)

func errMissingColumn(name string) *Error {
	return &Error{Kind: KindMissingColumn, Detail: fmt.Sprintf("column %q not found", name)}
}

func errNegativeUncertainty(row int) *Error {
	return &Error{Kind: KindNegativeUncertainty, Detail: fmt.Sprintf("row %d has a negative uncertainty", row)}
}

func errEmptyID(row int) *Error {
	return &Error{Kind: KindEmptyID, Detail: fmt.Sprintf("row %d has an empty id after normalization", row)}
}

func errNonFiniteResult(row int) *Error {
	return &Error{Kind: KindNonFiniteResult, Detail: fmt.Sprintf("row %d's result column coerced to a non-finite value", row)}
}

func errMissingMethodInput(method Method) *Error {
	return &Error{Kind: KindMissingMethodInput, Detail: fmt.Sprintf("method %s requires a supplied value and uncertainty", method)}
}

func errInvalidParameter(name, detail string) *Error {
	return &Error{Kind: KindInvalidParameter, Detail: fmt.Sprintf("%s: %s", name, detail)}
}

// ErrRendererFailed wraps the external renderer subprocess's stderr
// (spec §6.5). It is constructed by package render, not by the core
// proper — the core never shells out.
func ErrRendererFailed(stderr string) *Error {
	return &Error{Kind: KindRendererFailed, Detail: stderr}
}
