// Package main provides the entry point for the linkpatrol CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes. Usage mistakes are distinguished from runtime failures so
// scripts can tell a typo apart from a missing store or an I/O error.
const (
	exitCodeOK    = 0
	exitCodeError = 1
	exitCodeUsage = 2
)

// usageError marks an error caused by wrong invocation rather than a
// runtime failure.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// NewRootCmd creates the root command for linkpatrol.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkpatrol",
		Short: "Find broken links on a website",
		Long: `linkpatrol crawls a website and records the HTTP status of every link
it finds. Pages on the site are fetched and parsed for further links;
links leaving the site are probed but not followed.

Crawls are durable. Interrupting a run and starting it again under the
same name resumes from the persisted queue without re-fetching pages
that were already checked.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Flag parse failures are usage mistakes, not runtime failures.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(execute(NewRootCmd()))
}

// execute runs cmd and maps its error to an exit code.
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return exitCodeOK
	}

	fmt.Fprintln(os.Stderr, err)

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		return exitCodeUsage
	}
	return exitCodeError
}

// exactArgs behaves like cobra.ExactArgs but reports the mismatch as a
// usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
