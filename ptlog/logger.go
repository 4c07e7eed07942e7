// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ptlog provides the structured logger used by the CLI
// collaborator. The statistical core (package ptstat,
// numeric, robust) never logs: logging is an ambient concern of the
// caller layer, not of the pure computation (spec §5).
package ptlog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level names a logging verbosity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the wire format of the logger's output.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger is a thin structured-logging wrapper around zerolog.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger from cfg. A nil cfg.Output defaults to os.Stdout.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	var out io.Writer = cfg.Output
	if cfg.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339, NoColor: false}
	}

	zl := zerolog.New(out).With().Timestamp().Logger()
	switch cfg.Level {
	case LevelDebug:
		zl = zl.Level(zerolog.DebugLevel)
	case LevelWarn:
		zl = zl.Level(zerolog.WarnLevel)
	case LevelError:
		zl = zl.Level(zerolog.ErrorLevel)
	default:
		zl = zl.Level(zerolog.InfoLevel)
	}
	return &Logger{zl: zl}
}

// Debug logs msg at debug level with the given key/value pairs.
func (l *Logger) Debug(msg string, kv ...interface{}) { l.log(l.zl.Debug(), msg, kv) }

// Info logs msg at info level with the given key/value pairs.
func (l *Logger) Info(msg string, kv ...interface{}) { l.log(l.zl.Info(), msg, kv) }

// Warn logs msg at warn level with the given key/value pairs.
func (l *Logger) Warn(msg string, kv ...interface{}) { l.log(l.zl.Warn(), msg, kv) }

// Error logs msg at error level with the given key/value pairs.
func (l *Logger) Error(msg string, kv ...interface{}) { l.log(l.zl.Error(), msg, kv) }

func (l *Logger) log(event *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, kv[i+1])
	}
	event.Msg(msg)
}
