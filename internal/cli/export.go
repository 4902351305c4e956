package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/koustreak/aam/internal/annotation"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every block to schema_info.txt",
		Long: `Concatenate the documentation block of every model into one file and
store it on the local filesystem or in a MinIO bucket. An identical
object already in place is left alone.`,
		Example: `  # Write ./db/schema_info.txt
  aam export

  # Upload to MinIO
  AAM_EXPORT_ACCESS_KEY=minioadmin AAM_EXPORT_SECRET_KEY=minioadmin \
    aam export --target minio --key schema_info.txt`,
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
			if err := exportBatch(cmd, a, batch); err != nil {
				return err
			}
			printReportSummary(cmd.ErrOrStderr(), batch)
			return nil
		},
	}

	addExportFlags(cmd)
	return cmd
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().String("target", "", "Export target: local or minio")
	cmd.Flags().String("path", "", "Directory of the local export")
	cmd.Flags().String("key", "", "Object key (default: db/schema_info.txt)")
}

// exportBatch stores the combined report and prints where it went.
func exportBatch(cmd *cobra.Command, a *app, batch *annotation.Batch) error {
	ctx := cmd.Context()
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := annotation.Export(ctx, store, a.cfg.Export.Key, batch)
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	if res.Skipped {
		color.New(color.FgCyan).Fprintf(w, "unchanged: %s (%d counts)\n", res.Info.Key, res.Blocks)
		return nil
	}
	color.New(color.FgGreen).Fprintf(w, "output: %s (%d counts)\n", res.Info.Key, res.Blocks)
	return nil
}
