package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/bartekus/monarch/cmd/monarch/internal/clierr"
	"github.com/bartekus/monarch/internal/manifest"
)

// Status values reported per manifest entry.
const (
	statusDone    = "done"
	statusPending = "pending"
	statusSkipped = "skipped"
)

type statusEntry struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type statusReport struct {
	Backend    string        `json:"backend"`
	Key        string        `json:"key"`
	Completed  []string      `json:"completed"`
	Migrations []statusEntry `json:"migrations,omitempty"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "status [flags]",
		Short: "Show completed and pending migrations",
		Long: `Show the migrations recorded as complete. When a manifest is available
(--file, or the configured manifest if it exists) every entry is listed as done,
pending or skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()
			ctx := cmd.Context()

			report := statusReport{Backend: s.cfg.Backend, Key: s.cfg.Key, Completed: []string{}}
			for _, id := range s.runner.Store().Completed(ctx) {
				report.Completed = append(report.Completed, id.String())
			}

			path := manifestPath(file, s.cfg.Manifest)
			m, err := manifest.Load(path)
			switch {
			case err == nil:
				done := make(map[string]bool, len(report.Completed))
				for _, id := range report.Completed {
					done[id] = true
				}
				for _, e := range m.Migrations {
					status := statusPending
					switch {
					case done[e.ID]:
						status = statusDone
					case !e.Enabled():
						status = statusSkipped
					}
					report.Migrations = append(report.Migrations, statusEntry{ID: e.ID, Status: status})
				}
			case file == "" && errors.Is(err, fs.ErrNotExist):
				// No manifest configured on disk; report the store only.
			default:
				return clierr.Wrap(clierr.ExitUsage, "load manifest", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return writeStatus(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "manifest file (default from config, monarch.yaml)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the status as JSON")

	return cmd
}

func writeStatus(w io.Writer, r statusReport) error {
	if _, err := fmt.Fprintf(w, "Backend: %s (key %s)\n", r.Backend, r.Key); err != nil {
		return err
	}

	if r.Migrations != nil {
		for _, m := range r.Migrations {
			if _, err := fmt.Fprintf(w, "  %-8s %s\n", m.Status, m.ID); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "Completed migrations: %d\n", len(r.Completed)); err != nil {
		return err
	}
	for _, id := range r.Completed {
		if _, err := fmt.Fprintf(w, "  %s\n", id); err != nil {
			return err
		}
	}
	return nil
}

func newMarkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <id>...",
		Short: "Record migrations as complete without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			for _, id := range ids {
				if err := s.runner.MarkComplete(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %s complete.\n", id)
			}
			return nil
		},
	}
}

func newUnmarkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unmark <id>...",
		Short: "Forget completed migrations so they run again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			for _, id := range ids {
				if err := s.runner.Unmark(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unmarked %s.\n", id)
			}
			return nil
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget every completed migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return clierr.Usagef("reset forgets every completed migration; pass --yes to confirm")
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			if err := s.runner.ClearAll(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared completed migrations.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	return cmd
}

