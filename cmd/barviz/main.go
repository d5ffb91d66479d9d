/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Command barviz lays out bar charts from dataset files, printing their
// geometry or their exported data.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ilhamster/barviz/config"
	"github.com/spf13/cobra"
)

const (
	settingsFlag  = "settings"
	logLevelFlag  = "log-level"
	defaultLevel  = "warn"
	settingsUsage = "path to a YAML, JSON or TOML settings file"
	logLevelUsage = "minimum log level: debug, info, warn or error"
)

// rootOptions holds the flags shared by all subcommands.
type rootOptions struct {
	settingsPath string
	logLevel     string
	logger       *slog.Logger
}

func (ro *rootOptions) settings() (*config.Settings, error) {
	return config.Load(ro.settingsPath)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{
		logger: slog.Default(),
	}
	cmd := &cobra.Command{
		Use:   "barviz",
		Short: "Lay out bar charts from dataset files",
		Long: `barviz lays out horizontal bar charts from dataset files.

Commands:
  layout    Lay out a single chart
  batch     Lay out several charts concurrently`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid --%s: %w", logLevelFlag, err)
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.settingsPath, settingsFlag, "", settingsUsage)
	cmd.PersistentFlags().StringVar(&opts.logLevel, logLevelFlag, defaultLevel, logLevelUsage)
	cmd.AddCommand(newLayoutCommand(opts))
	cmd.AddCommand(newBatchCommand(opts))
	return cmd
}
