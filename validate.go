// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptstat

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
)

// ColumnMapping names the caller-supplied columns the validation kernel
// reads from a raw table (spec §4.4, §6.3). UncertaintyCol is optional;
// leave it empty when the round carries no per-participant
// uncertainties.
type ColumnMapping struct {
	IDCol          string
	ResultCol      string
	UncertaintyCol string
}

// RawTable is a caller-named tabular frame: Header names each column,
// Rows holds the cell values in the same column order as Header.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Validate runs the deterministic input-validation pipeline of spec
// §4.4 over table using mapping, producing a Dataset ready for the
// method dispatcher plus a report of any dropped rows.
//
// Validate never reorders rows. Rows with an unparsable result are
// dropped and recorded in the returned dropped-rows slice. Rows with a
// negative uncertainty, a non-finite (coerced-to-±∞) result, or an
// empty id after trimming fail immediately with a *Error — these
// indicate malformed data, not merely missing data, and are not
// individually recoverable.
func Validate(table RawTable, mapping ColumnMapping) (Dataset, []DroppedRow, error) {
	idIdx, err := columnIndex(table.Header, mapping.IDCol)
	if err != nil {
		return Dataset{}, nil, err
	}
	resultIdx, err := columnIndex(table.Header, mapping.ResultCol)
	if err != nil {
		return Dataset{}, nil, err
	}
	uIdx := -1
	if mapping.UncertaintyCol != "" {
		uIdx, err = columnIndex(table.Header, mapping.UncertaintyCol)
		if err != nil {
			return Dataset{}, nil, err
		}
	}

	var (
		ids     []string
		xs      []float64
		us      []*float64
		origIdx []int
		dropped []DroppedRow
	)
	haveU := uIdx >= 0

	for row, cells := range table.Rows {
		resultCell := cellAt(cells, resultIdx)
		x, parseErr := strconv.ParseFloat(strings.TrimSpace(resultCell), 64)
		if parseErr != nil {
			x = math.NaN()
		}
		if math.IsNaN(x) {
			dropped = append(dropped, DroppedRow{Index: row, Reason: "result column did not parse to a finite number"})
			continue
		}
		if math.IsInf(x, 0) {
			return Dataset{}, nil, errNonFiniteResult(row)
		}

		var uPtr *float64
		if haveU {
			uCell := cellAt(cells, uIdx)
			u, uErr := strconv.ParseFloat(strings.TrimSpace(uCell), 64)
			switch {
			case uErr != nil || math.IsNaN(u):
				uPtr = nil
			case math.IsInf(u, 0):
				uPtr = nil
			case u < 0:
				return Dataset{}, nil, errNegativeUncertainty(row)
			default:
				uv := u
				uPtr = &uv
			}
		}

		id := strings.TrimSpace(cellAt(cells, idIdx))
		if id == "" {
			return Dataset{}, nil, errEmptyID(row)
		}

		ids = append(ids, id)
		xs = append(xs, x)
		us = append(us, uPtr)
		origIdx = append(origIdx, row)
	}

	if len(xs) == 0 {
		return Dataset{}, dropped, ErrEmptyDataset
	}

	ds := Dataset{IDs: ids, X: xs, OriginalIndex: origIdx}
	if haveU {
		ds.U = us
	}
	return ds, dropped, nil
}

// LoadTable reads a CSV document (including its header row) from r into
// a RawTable suitable for Validate. No third-party CSV library is used
// in the retrieved example pack (see DESIGN.md); this is the one
// boundary concern built directly on the standard library.
func LoadTable(r io.Reader) (RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return RawTable{}, err
	}
	if len(records) == 0 {
		return RawTable{}, nil
	}
	return RawTable{Header: records[0], Rows: records[1:]}, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return -1, errMissingColumn(name)
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
