// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"context"
	"errors"
	"runtime"
	"testing"

	ptstat "github.com/ptlab/iso13528"
)

func TestParseOutputFormat(t *testing.T) {
	for _, ok := range []string{"pdf", "html", "docx"} {
		if _, err := ParseOutputFormat(ok); err != nil {
			t.Errorf("ParseOutputFormat(%q) returned error: %v", ok, err)
		}
	}
	if _, err := ParseOutputFormat("epub"); err == nil {
		t.Error("expected an error for an unrecognized output format")
	}
}

func TestRenderFailurePropagatesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}
	req := Request{
		Binary:            "/bin/sh",
		TemplatePath:      "-c",
		ResultsRecordPath: "echo boom 1>&2; exit 1",
		OutputFormat:      FormatPDF,
		OutputPath:        "",
	}
	err := Render(context.Background(), req)
	var perr *ptstat.Error
	if !errors.As(err, &perr) || perr.Kind != ptstat.KindRendererFailed {
		t.Fatalf("err = %v, want RendererFailed", err)
	}
}

func TestRenderSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}
	req := Request{
		Binary:            "/bin/sh",
		TemplatePath:      "-c",
		ResultsRecordPath: "exit 0",
		OutputFormat:      FormatPDF,
	}
	if err := Render(context.Background(), req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
