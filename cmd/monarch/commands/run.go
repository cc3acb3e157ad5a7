package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bartekus/monarch/cmd/monarch/internal/clierr"
	"github.com/bartekus/monarch/internal/manifest"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run [flags]",
		Short: "Run pending migrations from a manifest",
		Long: `Run every migration in the manifest that has not completed yet, in file order.
Commands run with sh -c in the manifest's directory. The first failure stops the run;
migrations completed before it stay recorded and the next run resumes at the failed one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			path := manifestPath(file, s.cfg.Manifest)
			m, err := manifest.Load(path)
			if err != nil {
				return clierr.Wrap(clierr.ExitUsage, "load manifest", err)
			}

			out := cmd.OutOrStdout()
			g, err := m.Group(&manifest.Env{
				WorkDir: filepath.Dir(path),
				Stdout:  out,
				Stderr:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return clierr.Wrap(clierr.ExitUsage, "invalid manifest", err)
			}

			pending := s.runner.Pending(cmd.Context(), g)
			if len(pending) == 0 {
				_, _ = fmt.Fprintln(out, "No pending migrations.")
				return nil
			}

			if dryRun {
				_, _ = fmt.Fprintf(out, "Would run %d migration(s):\n", len(pending))
				for _, t := range pending {
					_, _ = fmt.Fprintf(out, "  %s\n", t.ID())
				}
				return nil
			}

			if err := s.runner.Run(cmd.Context(), g); err != nil {
				return clierr.Wrap(clierr.ExitMigration, "migration failed", err)
			}
			_, _ = fmt.Fprintf(out, "Applied %d migration(s).\n", len(pending))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "manifest file (default from config, monarch.yaml)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list pending migrations without running them")

	return cmd
}

func manifestPath(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
