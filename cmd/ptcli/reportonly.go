// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptlab/iso13528/render"
)

var reportOnlyCmd = &cobra.Command{
	Use:   "report-only",
	Args:  cobra.NoArgs,
	Short: "Render a report from a previously computed ResultsRecord file",
	Long:  `Invokes the external renderer subprocess against an existing ResultsRecord JSON file (spec §6.5), without recomputing anything.`,
	RunE:  runReportOnly,
}

func init() {
	reportOnlyCmd.Flags().String("results", "", "path to a ResultsRecord JSON file written by 'calculate'")
	reportOnlyCmd.Flags().String("output", "", "path the renderer should write the report to")
	reportOnlyCmd.Flags().String("format", "", "output format: pdf, html, docx (overrides config)")
}

func runReportOnly(cmd *cobra.Command, args []string) error {
	resultsPath, _ := cmd.Flags().GetString("results")
	outputPath, _ := cmd.Flags().GetString("output")
	if resultsPath == "" || outputPath == "" {
		return fmt.Errorf("--results and --output are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	formatStr := cfg.Render.OutputFormat
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		formatStr = v
	}
	format, err := render.ParseOutputFormat(formatStr)
	if err != nil {
		return err
	}

	req := render.Request{
		Binary:            cfg.Render.RendererBinary,
		TemplatePath:      cfg.Render.TemplatePath,
		ResultsRecordPath: resultsPath,
		OutputFormat:      format,
		OutputPath:        outputPath,
	}

	if err := render.Render(context.Background(), req); err != nil {
		logger.Error("render failed", "error", messageFor(err))
		return fmt.Errorf("%s", messageFor(err))
	}

	logger.Info("report rendered", "results", resultsPath, "output", outputPath, "format", string(format))
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s -> %s (%s)\n", resultsPath, outputPath, format)
	return nil
}
