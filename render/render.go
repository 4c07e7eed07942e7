// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render invokes the external report-rendering subprocess
// (spec §6.5). The renderer itself — template interpretation, PDF/HTML/
// DOCX generation, plot rasterization — is explicitly out of scope
// (spec §1 Non-goals); this package only owns the boundary: building
// the subprocess's argument vector, running it, and turning a non-zero
// exit into a *ptstat.Error{Kind: RendererFailed}.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	ptstat "github.com/ptlab/iso13528"
)

// OutputFormat is one of the renderer's supported output formats (spec
// §6.5).
type OutputFormat string

const (
	FormatPDF  OutputFormat = "pdf"
	FormatHTML OutputFormat = "html"
	FormatDocx OutputFormat = "docx"
)

// Request names a single render invocation.
type Request struct {
	Binary            string
	TemplatePath      string
	ResultsRecordPath string
	OutputFormat      OutputFormat
	OutputPath        string
}

// Render runs the renderer subprocess named by req.Binary with
// positional arguments (template_path, results_record_path,
// output_format, output_path), mirroring the exec.Command +
// captured-stderr idiom of jhkimqd-chaos-utils's
// config.DiscoverPrometheusEndpoint.
//
// A non-zero exit is surfaced as *ptstat.Error{Kind: KindRendererFailed}
// carrying the subprocess's stderr, never as a generic error.
func Render(ctx context.Context, req Request) error {
	cmd := exec.CommandContext(ctx, req.Binary,
		req.TemplatePath,
		req.ResultsRecordPath,
		string(req.OutputFormat),
		req.OutputPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := stderr.String()
		if detail == "" {
			detail = err.Error()
		}
		return ptstat.ErrRendererFailed(detail)
	}
	return nil
}

// ParseOutputFormat validates a caller-supplied format string against
// the three recognized renderer output formats.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatPDF, FormatHTML, FormatDocx:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("render: unrecognized output format %q (want pdf, html, or docx)", s)
	}
}
