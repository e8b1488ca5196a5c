// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"cogentcore.org/bionic/base/errors"
	"cogentcore.org/bionic/base/logx"
)

// Config is the configuration of a [Store]. It is typically
// loaded from a TOML file with [LoadConfig].
type Config struct {

	// Debug logs purged orphans, and includes source
	// locations in loggers made by [Config.NewLogger].
	Debug bool `toml:"debug" yaml:"debug"`

	// Trace logs every delivery of every cascade at [slog.LevelDebug].
	Trace bool `toml:"trace" yaml:"trace"`

	// MaxNesting is how deep handlers that write values can nest
	// cascades before further cascades are refused. Zero, the default,
	// means no limit; feedback loops are refused regardless.
	MaxNesting int `toml:"max_nesting" yaml:"max_nesting"`

	// LogLevel is the minimum level of loggers made by [Config.NewLogger]:
	// debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// DefaultConfig returns the default [Config].
func DefaultConfig() Config {
	return Config{
		LogLevel: "warn",
	}
}

// ReadConfig reads a TOML [Config] from the given reader, starting from
// the [DefaultConfig]. Unknown fields are an error.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&c)
	if err != nil {
		return c, fmt.Errorf("bionic.ReadConfig: %w", err)
	}
	if c.MaxNesting < 0 {
		return c, fmt.Errorf("bionic.ReadConfig: max_nesting must not be negative, got %d", c.MaxNesting)
	}
	if _, err := logx.ParseLevel(c.LogLevel); err != nil {
		return c, fmt.Errorf("bionic.ReadConfig: %w", err)
	}
	return c, nil
}

// LoadConfig reads a TOML [Config] from the given file.
func LoadConfig(filename string) (Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return DefaultConfig(), err
	}
	defer f.Close()
	return ReadConfig(f)
}

// Level returns the [slog.Level] named by [Config.LogLevel],
// logging an invalid name and using [slog.LevelWarn] for it.
func (c Config) Level() slog.Level {
	l, err := logx.ParseLevel(c.LogLevel)
	if err != nil {
		errors.Log(err)
		return slog.LevelWarn
	}
	return l
}

// NewLogger returns a new logger writing to w at [Config.Level],
// with source locations if [Config.Debug] is set.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(logx.NewHandler(w, c.Level(), c.Debug))
}
