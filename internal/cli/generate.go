package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/koustreak/aam/internal/annotation"
	"github.com/koustreak/aam/internal/schemainfo"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate [model...]",
		Short: "Print the documentation block of each model",
		Long: `Render the documentation block of every model (or only the named ones)
to standard output. Nothing is written to disk.`,
		Example: `  # Every model in the manifest
  aam generate

  # Two models, in the localized box layout
  aam generate User Article --preset legacy

  # Rows and diagnostics as JSON
  aam generate User --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			opts := a.cfg.RunOptions()
			if len(args) > 0 {
				opts.Models = strings.Join(args, ",")
			}
			r := annotation.NewRunner(a.provider, a.tr, opts, a.cfg.StyleOptions(), a.log)
			batch, err := r.Analyze(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(batch.Reports); err != nil {
					return err
				}
			} else {
				for _, rep := range batch.Reports {
					fmt.Fprintln(out, rep.Text)
				}
			}
			printReportSummary(cmd.ErrOrStderr(), batch)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output reports as JSON")
	return cmd
}

// printReportSummary prints how many blocks were rendered, how many
// warnings they carry and which models failed.
func printReportSummary(w io.Writer, b *annotation.Batch) {
	successColor := color.New(color.FgGreen, color.Bold)
	warningColor := color.New(color.FgYellow)
	errorColor := color.New(color.FgRed, color.Bold)

	warnings := 0
	for _, rep := range b.Reports {
		warnings += schemainfo.Warnings(rep.Diagnostics)
	}

	successColor.Fprintf(w, "%d models", len(b.Reports))
	fmt.Fprint(w, ", ")
	if warnings > 0 {
		warningColor.Fprintf(w, "%d warnings", warnings)
	} else {
		fmt.Fprintf(w, "%d warnings", warnings)
	}
	fmt.Fprint(w, ", ")
	if len(b.Failed) > 0 {
		errorColor.Fprintf(w, "%d errors", len(b.Failed))
	} else {
		fmt.Fprint(w, "0 errors")
	}
	fmt.Fprintln(w)

	for _, m := range b.FailedModels() {
		errorColor.Fprintf(w, "  %s: %v\n", m, b.Failed[m])
	}
}

// printCounts prints the annotation summary line.
func printCounts(w io.Writer, c annotation.Counts) {
	line := fmt.Sprintf("%d success, %d skip, %d errors", c.Success, c.Skip, c.Error)
	if c.Error > 0 {
		color.New(color.FgRed, color.Bold).Fprintln(w, line)
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintln(w, line)
}
