// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/themesync/cmd/themesync/commands"
	"github.com/walteh/themesync/cmd/themesync/opts"
	"github.com/walteh/themesync/pkg/config"
	"github.com/walteh/themesync/pkg/log"
)

// NewRootCmd builds the command tree writing user output to console
func NewRootCmd(console io.Writer) *cobra.Command {
	o := &opts.RootOpts{Console: console}

	cmd := &cobra.Command{
		Use:   "themesync",
		Short: "Push a local theme directory to a remote asset store",
		Long: `themesync uploads and removes theme assets on a remote store.
The store is picked from a config file by theme name, files are filtered by
ignore rules and sent with bounded concurrency and retries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := setupLogging(cmd, o.Debug)
			cmd.SetContext(ctx)
			mirror := zerolog.Nop()
			if o.Debug {
				mirror = *zerolog.Ctx(ctx)
			}
			o.Logger = log.New(o.Console, mirror)
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewSyncCmd(o),
		commands.NewUnsyncCmd(o),
		commands.NewPlanCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", config.DefaultFile, "config file path")
	cmd.PersistentFlags().StringVarP(&o.Theme, "theme", "t", config.DefaultEnvironment, "theme environment in the config file")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().IntVar(&o.Concurrency, "concurrency", 0, "parallel remote calls (default from config, then 10)")
	cmd.PersistentFlags().StringVar(&o.Root, "root", "", "local theme directory (default from config, then the working directory)")
	cmd.PersistentFlags().BoolVar(&o.NoProgress, "no-progress", false, "print progress lines instead of a bar")
}

// setupLogging adjusts the context logger based on flags
func setupLogging(cmd *cobra.Command, debug bool) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		logger = &l
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return logger.Level(level).WithContext(ctx)
}
