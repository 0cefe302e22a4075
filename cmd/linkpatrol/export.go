package main

import (
	"fmt"

	"github.com/nao1215/linkpatrol/internal/config"
	"github.com/nao1215/linkpatrol/internal/report"
	"github.com/nao1215/linkpatrol/internal/store"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Export stored crawl results for other tools",
		Long: `Export dumps every stored result of crawl <name> in a machine-readable
format. CSV rows are flattened per URL; JSON preserves the full record
including extracted links and response headers.

Examples:
  # CSV to stdout
  linkpatrol export --format csv mysite

  # Pretty-printed JSON to a file
  linkpatrol export --format json --pretty --output results.json mysite`,
		Args: exactArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "f", "csv",
		"Export format: csv or json")
	cmd.Flags().StringP("output", "o", "",
		"Write the export to a file instead of stdout")
	cmd.Flags().Bool("pretty", false,
		"Pretty-print JSON output")
	cmd.Flags().String("data-dir", "",
		"Directory holding the store files (default: XDG data directory)")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	name := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	pretty, err := cmd.Flags().GetBool("pretty")
	if err != nil {
		return err
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = config.XDGDataDir()
	}

	var exporter report.Exporter
	switch format {
	case "csv":
		exporter = report.NewCSVExporter()
	case "json":
		opts := []report.JSONExporterOption{}
		if pretty {
			opts = append(opts, report.WithPrettyPrint())
		}
		exporter = report.NewJSONExporter(opts...)
	default:
		return &usageError{err: fmt.Errorf("unknown export format %q (want csv or json)", format)}
	}

	results, err := store.OpenResults(store.ResultsPath(dataDir, name), store.Options{})
	if err != nil {
		return fmt.Errorf("no crawl named %q found in %s: %w", name, dataDir, err)
	}
	defer results.Close()

	output, closeOutput, err := openOutput(cmd.OutOrStdout(), outputPath)
	if err != nil {
		return err
	}
	defer closeOutput()

	return exporter.Export(cmd.Context(), results, output)
}
