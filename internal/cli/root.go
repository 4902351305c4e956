// Package cli implements the aam command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// flagKeys maps persistent flags to configuration keys. Only flags the
// user actually set override aam.yml and the environment.
var flagKeys = map[string]string{
	"root":         "root_dir",
	"manifest":     "manifest",
	"translations": "translations",
	"models":       "models",
	"dry-run":      "dry_run",
	"debug":        "debug",
	"concurrency":  "concurrency",
	"preset":       "style.preset",
	"marker":       "style.marker",
	"driver":       "database.driver",
	"dsn":          "database.dsn",
	"schema":       "database.schema",
	"addr":         "server.addr",
	"target":       "export.target",
	"path":         "export.path",
	"key":          "export.key",
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aam",
		Short: "Annotate models with their schema",
		Long: color.CyanString(`aam - schema annotation for model files

aam renders a documentation block for every model: one row per column with
its type, attributes, references and index membership, followed by remarks
about missing indexes and one-sided associations. Tables come from a YAML
manifest, optionally merged with a live PostgreSQL or MySQL database.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.PersistentFlags()
	f.String("config", "", "Config file (default: ./aam.yml)")
	f.String("root", "", "Project root searched for model files")
	f.String("manifest", "", "Model manifest (default: db/aam.yml)")
	f.String("translations", "", "Translation dictionary (YAML)")
	f.String("models", "", "Comma separated model filter")
	f.Bool("dry-run", false, "Report changes without writing files")
	f.Bool("debug", false, "Log resolution failures and every diagnostic")
	f.Int("concurrency", 0, "Parallel table analyses")
	f.String("preset", "", "Output style: generator or legacy")
	f.String("marker", "", "Line comment marker")
	f.String("driver", "", "Database driver for live introspection: postgres or mysql")
	f.String("dsn", "", "Database connection string")
	f.String("schema", "", "Database schema to introspect")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewAnnotateCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			titleColor.Fprint(out, "aam version: ")
			fmt.Fprintln(out, Version)
			titleColor.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)
			titleColor.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)
			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
