// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/ptlab/iso13528/ptconfig"
	"github.com/ptlab/iso13528/ptlog"
)

func loadConfig() (*ptconfig.Config, error) {
	cfg, err := ptconfig.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *ptconfig.Config) *ptlog.Logger {
	level := ptlog.Level(cfg.Logging.Level)
	if verbose {
		level = ptlog.LevelDebug
	}
	return ptlog.New(ptlog.Config{
		Level:  level,
		Format: ptlog.Format(cfg.Logging.Format),
	})
}
