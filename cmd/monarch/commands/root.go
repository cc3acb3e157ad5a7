// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Monarch - one-time migrations for applications and developer machines.
Each migration runs at most once per store; completed migrations are recorded
in a pluggable backend so later runs skip them.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/monarch/cmd/monarch/internal/clierr"
	"github.com/bartekus/monarch/internal/backend"
	"github.com/bartekus/monarch/internal/config"
	"github.com/bartekus/monarch/pkg/migration"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd constructs the Monarch root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("MONARCH_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "monarch",
		Short:         "Monarch - run one-time migrations exactly once",
		Long:          "Monarch runs ordered, one-time migrations and records which ones have completed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./monarch.toml or ~/.config/monarch/monarch.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of Monarch",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Monarch version %s\n", version)
		},
	})

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newMarkCmd(opts))
	cmd.AddCommand(newUnmarkCmd(opts))
	cmd.AddCommand(newResetCmd(opts))

	return cmd
}

// session is an opened backend with a runner over it.
type session struct {
	cfg    *config.Config
	runner *migration.Runner
	close  func() error
}

func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitUsage, "load config", err)
	}

	level := cfg.Level()
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	store, closeFn, err := backend.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitFailure, fmt.Sprintf("open %s backend", cfg.Backend), err)
	}
	logger.Debug("backend opened", slog.String("backend", cfg.Backend), slog.String("key", cfg.Key))

	r := migration.NewRunner(store,
		migration.WithKey(cfg.Key),
		migration.WithLogger(logger),
		migration.WithMissingDependencyErrors(),
	)
	return &session{cfg: cfg, runner: r, close: closeFn}, nil
}

// parseIDs converts command arguments to migration IDs.
func parseIDs(args []string) ([]migration.ID, error) {
	ids := make([]migration.ID, 0, len(args))
	for i, arg := range args {
		id, err := migration.ParseID(arg)
		if err != nil {
			return nil, clierr.Usagef("argument %d: migration id cannot be empty", i+1)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
