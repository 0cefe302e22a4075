package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/linkpatrol/internal/model"
	"github.com/nao1215/linkpatrol/internal/store"
	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs the crawl summary as GitHub-flavored Markdown.
// This format is designed for documentation, issue comments, and CI
// artifacts.
type MarkdownWriter struct {
	baseWriter

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}
}

// Write renders the summary and the list of broken URLs.
// The broken list is read from the result store so the document reflects
// exactly what was persisted.
func (w *MarkdownWriter) Write(ctx context.Context, summary *Summary, results *store.Results) error {
	md := markdown.NewMarkdown(w.output)

	md.H1(fmt.Sprintf("Link check report: %s", summary.Name)).
		PlainTextf("Generated: %s", w.now().Format(time.RFC3339)).
		LF().
		PlainTextf("%d URLs checked, %d broken.", summary.Total, summary.Broken).
		LF()

	w.writeStatusTable(md, summary)

	if summary.Broken > 0 {
		if err := w.writeBrokenTable(ctx, md, results); err != nil {
			return err
		}
	} else {
		md.Note("No broken links found.")
	}

	return md.Build()
}

func (w *MarkdownWriter) writeStatusTable(md *markdown.Markdown, summary *Summary) {
	rows := make([][]string, 0, len(summary.Buckets))
	for _, b := range summary.Buckets {
		rows = append(rows, []string{b.Label(), fmt.Sprintf("%d", b.Count)})
	}
	md.H2("Status breakdown").
		Table(markdown.TableSet{
			Header: []string{"Status", "Count"},
			Rows:   rows,
		})
}

func (w *MarkdownWriter) writeBrokenTable(ctx context.Context, md *markdown.Markdown, results *store.Results) error {
	rows := [][]string{}
	err := results.Each(ctx, func(url string, rec *model.Record) error {
		if rec.OK() {
			return nil
		}
		detail := rec.Err
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", rec.Status)
		}
		rows = append(rows, []string{url, detail})
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect broken links: %w", err)
	}

	md.H2("Broken links").
		Table(markdown.TableSet{
			Header: []string{"URL", "Problem"},
			Rows:   rows,
		})
	return nil
}
