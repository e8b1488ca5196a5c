// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bionic runs the bionic demo and applies, inspects
// and watches seed files of scoped values.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"cogentcore.org/bionic/base/errors"
	"cogentcore.org/bionic/base/logx"
	"cogentcore.org/bionic/bionic"
)

// defaultConfigFile is where the config is read from when
// --config is not given, if the file exists.
const defaultConfigFile = "~/.config/bionic/config.toml"

var (
	flagConfig      string
	flagVerbose     bool
	flagVeryVerbose bool
	flagQuiet       bool
	flagMetrics     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "bionic",
	Short:         "Scoped hierarchical state for widget trees",
	Long:          "Bionic shares values down a tree of nodes: each node sees the value of its nearest ancestor holding a key, and is notified when it changes.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logx.UserLevel = logx.LevelFromFlags(flagVeryVerbose, flagVerbose, flagQuiet)
		logx.SetDefaultLogger()
	},
	// No Run: prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "TOML config file (default "+defaultConfigFile+" if it exists)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log info messages")
	rootCmd.PersistentFlags().BoolVar(&flagVeryVerbose, "vv", false, "log debug messages")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "print store metrics when done")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig returns the config named by --config, or the one in
// [defaultConfigFile] if it exists, or the default config.
func loadConfig() (bionic.Config, error) {
	file := flagConfig
	if file == "" {
		file = errors.Log1(homedir.Expand(defaultConfigFile))
		if _, err := os.Stat(file); err != nil {
			return bionic.DefaultConfig(), nil
		}
	} else {
		var err error
		if file, err = homedir.Expand(file); err != nil {
			return bionic.DefaultConfig(), err
		}
	}
	return bionic.LoadConfig(file)
}

// newStore returns a new store set up from the config and flags,
// along with the registry its metrics are registered with.
func newStore(cmd *cobra.Command) (*bionic.Store, *prometheus.Registry, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	s := bionic.NewStore().SetConfig(c)
	if !flagVerbose && !flagVeryVerbose && !flagQuiet {
		s.SetLogger(c.NewLogger(cmd.ErrOrStderr()))
	}
	reg := prometheus.NewRegistry()
	s.SetMetrics(bionic.NewMetrics(reg))
	slog.Debug("store ready", "config", fmt.Sprintf("%+v", c))
	return s, reg, nil
}

// finish prints the metrics in the registry if --metrics is set.
func finish(w io.Writer, reg *prometheus.Registry) error {
	if !flagMetrics {
		return nil
	}
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "# metrics")
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%s%s %v\n", mf.GetName(), metricLabels(m), metricValue(m))
		}
	}
	return nil
}

func metricLabels(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}
	lbs := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		lbs = append(lbs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	sort.Strings(lbs)
	return "{" + strings.Join(lbs, ",") + "}"
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	}
	return 0
}
