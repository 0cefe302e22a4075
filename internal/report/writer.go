package report

import (
	"io"

	"github.com/fatih/color"
)

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// headerFormatter colors table headers for terminal output.
func headerFormatter() func(format string, vals ...interface{}) string {
	return color.New(color.FgGreen, color.Underline).SprintfFunc()
}
