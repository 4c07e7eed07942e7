// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ptlab/iso13528/ptconfig"
	"github.com/ptlab/iso13528/ptmetrics"
	ptstat "github.com/ptlab/iso13528"
	"github.com/ptlab/iso13528/robust"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Args:  cobra.NoArgs,
	Short: "Validate an input table and compute a full PT round result",
	Long:  `Runs the validation kernel, dispatches the configured method, scores every participant, and writes a ResultsRecord JSON file (spec §6.2) for the report renderer.`,
	RunE:  runCalculate,
}

func init() {
	calculateCmd.Flags().String("input", "", "path to the input CSV file")
	calculateCmd.Flags().String("id-col", "", "id column name (overrides config)")
	calculateCmd.Flags().String("result-col", "", "result column name (overrides config)")
	calculateCmd.Flags().String("uncertainty-col", "", "uncertainty column name (overrides config)")
	calculateCmd.Flags().String("method", "", "assigned-value method: A, CRM, Formulation, Expert (overrides config)")
	calculateCmd.Flags().Float64("sigma-pt", 0, "override calculation.sigma_pt (0 means use config)")
	calculateCmd.Flags().String("output", "", "path to write the ResultsRecord JSON file")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	if inputPath == "" || outputPath == "" {
		return fmt.Errorf("--input and --output are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	roundID := uuid.NewString()

	var metrics *ptmetrics.Recorder
	if cfg.Metrics.Enabled {
		metrics = ptmetrics.NewRecorder(prometheus.DefaultRegisterer)
	}

	mapping := mappingFromConfigAndFlags(cmd, cfg)

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", inputPath, err)
	}
	defer f.Close()

	table, err := ptstat.LoadTable(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s as CSV: %w", inputPath, err)
	}

	ds, dropped, err := ptstat.Validate(table, mapping)
	if err != nil {
		logger.Error("validation failed", "round_id", roundID, "error", messageFor(err))
		return fmt.Errorf("%s", messageFor(err))
	}

	req, err := requestFromConfig(cmd, cfg, ds)
	if err != nil {
		return err
	}

	rec, err := ptstat.Compute(req, dropped)
	if err != nil {
		logger.Error("computation failed", "round_id", roundID, "error", messageFor(err))
		return fmt.Errorf("%s", messageFor(err))
	}
	rec.RoundID = roundID

	if metrics != nil {
		metrics.Observe(rec, len(dropped))
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results record: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	logger.Info("round computed", "round_id", roundID, "method", string(rec.Method), "x_pt", rec.XPt, "u_x_pt", rec.UXPt)
	fmt.Fprintf(cmd.OutOrStdout(), "round %s: x_pt=%.6g u(x_pt)=%.6g -> %s\n", roundID, rec.XPt, rec.UXPt, outputPath)
	return nil
}

func requestFromConfig(cmd *cobra.Command, cfg *ptconfig.Config, ds ptstat.Dataset) (ptstat.Request, error) {
	method := cfg.Calculation.Method
	if v, _ := cmd.Flags().GetString("method"); v != "" {
		method = v
	}

	req := ptstat.Request{
		Method:  ptstat.Method(method),
		Dataset: ds,
		AlgorithmA: robust.Params{
			Tolerance:     cfg.Calculation.AlgorithmA.Tolerance,
			MaxIterations: cfg.Calculation.AlgorithmA.MaxIterations,
		},
	}

	if sigma := cfg.Calculation.SigmaPt; sigma > 0 {
		s := sigma
		req.SigmaPt = &s
	}
	if v, _ := cmd.Flags().GetFloat64("sigma-pt"); v > 0 {
		req.SigmaPt = &v
	}

	switch req.Method {
	case ptstat.MethodCRM:
		v, u := cfg.Calculation.CRM.Value, cfg.Calculation.CRM.Uncertainty
		req.SuppliedValue, req.SuppliedUncertainty = &v, &u
	case ptstat.MethodFormulation:
		v, u := cfg.Calculation.Formulation.Value, cfg.Calculation.Formulation.Uncertainty
		req.SuppliedValue, req.SuppliedUncertainty = &v, &u
	case ptstat.MethodExpert:
		v, u := cfg.Calculation.Expert.Value, cfg.Calculation.Expert.Uncertainty
		req.SuppliedValue, req.SuppliedUncertainty = &v, &u
	}

	return req, nil
}
