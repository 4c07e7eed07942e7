// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ptcli is the CLI collaborator of spec §6.4: it surfaces the
// validation kernel, the full computation pipeline, and prior-record
// report rendering as three subcommands. It is a thin wrapper — every
// statistical decision lives in package ptstat; this command only
// parses flags, loads configuration, and maps core errors to exit
// codes (spec §7).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "ptcli",
	Short:   "Interlaboratory proficiency-testing round analysis",
	Long:    `ptcli computes an ISO 13528:2022 assigned value, its uncertainty, and per-participant z/zeta scores for one proficiency-testing round.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./ptconfig.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output: append offending row/value to error messages")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(reportOnlyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
