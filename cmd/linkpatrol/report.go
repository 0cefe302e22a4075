package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/linkpatrol/internal/config"
	"github.com/nao1215/linkpatrol/internal/report"
	"github.com/nao1215/linkpatrol/internal/store"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <name>",
		Short: "Show the results of a finished or interrupted crawl",
		Long: `Report reads the stored results of crawl <name> and prints the
status-code breakdown followed by the list of broken links.

The crawl does not have to be finished; an interrupted crawl reports
whatever was checked so far.

Examples:
  # Terminal summary
  linkpatrol report mysite

  # Markdown report written to a file
  linkpatrol report --markdown --output report.md mysite`,
		Args: exactArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().String("data-dir", "",
		"Directory holding the store files (default: XDG data directory)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the report as GitHub-flavored Markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	name := args[0]

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = config.XDGDataDir()
	}

	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}

	// Reporting never creates stores; a missing store is a wrong name.
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

	ctx := cmd.Context()
	summary, err := report.BuildSummary(ctx, name, results)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}

	if markdownOut {
		return report.NewMarkdownWriter(output).Write(ctx, summary, results)
	}

	summaryOpts := []report.SummaryWriterOption{}
	if noColor || outputPath != "" {
		summaryOpts = append(summaryOpts, report.WithSummaryNoColor())
	}
	w := report.NewSummaryWriter(output, summaryOpts...)
	if err := w.Write(summary); err != nil {
		return err
	}
	if summary.Broken > 0 {
		fmt.Fprintln(output)
		return w.WriteBroken(ctx, results)
	}
	return nil
}

// openOutput returns the report destination. An empty path means the
// default writer; otherwise the file is created along with its parent
// directories.
func openOutput(def io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return def, func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
