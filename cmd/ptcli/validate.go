// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptlab/iso13528/ptconfig"
	ptstat "github.com/ptlab/iso13528"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Args:  cobra.NoArgs,
	Short: "Run the input validation kernel alone, without computing a round",
	Long:  `Loads an input table and runs the validation kernel (spec §4.4), reporting dropped rows without dispatching a method or scoring.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().String("input", "", "path to the input CSV file")
	validateCmd.Flags().String("id-col", "", "id column name (overrides config)")
	validateCmd.Flags().String("result-col", "", "result column name (overrides config)")
	validateCmd.Flags().String("uncertainty-col", "", "uncertainty column name (overrides config)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath == "" {
		return fmt.Errorf("--input is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mapping := mappingFromConfigAndFlags(cmd, cfg)

	logger := newLogger(cfg)

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
		logger.Error("validation failed", "error", messageFor(err))
		return fmt.Errorf("%s", messageFor(err))
	}

	logger.Info("validation succeeded", "rows_kept", ds.Len(), "rows_dropped", len(dropped))
	for _, d := range dropped {
		fmt.Fprintf(cmd.OutOrStdout(), "dropped row %d: %s\n", d.Index, d.Reason)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d participant rows validated, %d dropped\n", ds.Len(), len(dropped))
	return nil
}

func mappingFromConfigAndFlags(cmd *cobra.Command, cfg *ptconfig.Config) ptstat.ColumnMapping {
	m := ptstat.ColumnMapping{
		IDCol:          cfg.InputData.IDCol,
		ResultCol:      cfg.InputData.ResultCol,
		UncertaintyCol: cfg.InputData.UncertaintyCol,
	}
	if v, _ := cmd.Flags().GetString("id-col"); v != "" {
		m.IDCol = v
	}
	if v, _ := cmd.Flags().GetString("result-col"); v != "" {
		m.ResultCol = v
	}
	if v, _ := cmd.Flags().GetString("uncertainty-col"); v != "" {
		m.UncertaintyCol = v
	}
	return m
}
