package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/koustreak/aam/internal/annotation"
)

// NewAnnotateCommand creates the annotate command
func NewAnnotateCommand() *cobra.Command {
	var skipExport bool

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Write documentation blocks into model files",
		Long: `Write every model's documentation block at the top of the files that
belong to it (models, tests, fixtures, specs, factories, controllers,
helpers, seeds and migrations) and export db/schema_info.txt.

An existing block is replaced in place. Files under node_modules are
never touched.`,
		Example: `  # Annotate everything
  aam annotate

  # Preview which files would change
  aam annotate --dry-run

  # Only the user and article models
  aam annotate --models user,article`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			r := annotation.NewRunner(a.provider, a.tr, a.cfg.RunOptions(), a.cfg.StyleOptions(), a.log)
			batch, err := r.Analyze(ctx)
			if err != nil {
				return err
			}

			if !skipExport && !a.cfg.DryRun {
				if err := exportBatch(cmd, a, batch); err != nil {
					return err
				}
			}

			counts, err := r.Annotate(ctx, batch)
			if err != nil {
				return err
			}
			if a.cfg.DryRun {
				color.New(color.FgCyan).Fprintln(cmd.ErrOrStderr(), "dry run: no files were written")
			}
			printCounts(cmd.ErrOrStderr(), counts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExport, "skip-export", false, "Do not write schema_info.txt")
	addExportFlags(cmd)
	return cmd
}
