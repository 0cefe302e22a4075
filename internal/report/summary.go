package report

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/nao1215/linkpatrol/internal/model"
	"github.com/nao1215/linkpatrol/internal/store"
	"github.com/rodaine/table"
)

// StatusBucket is one row of the status-code breakdown.
// A Status of zero groups URLs that produced no HTTP response at all.
type StatusBucket struct {
	Status int
	Count  int
}

// Label returns the human-readable name for the bucket.
func (b StatusBucket) Label() string {
	if b.Status == 0 {
		return "no response"
	}
	return fmt.Sprintf("%d", b.Status)
}

// Summary aggregates a finished crawl for display.
type Summary struct {
	// Name is the crawl name the stores were opened under.
	Name string

	// Total is the number of URLs with a stored result.
	Total int

	// Broken counts URLs whose record is not OK.
	Broken int

	// Buckets holds per-status counts sorted by status code,
	// with the no-response bucket last.
	Buckets []StatusBucket
}

// BuildSummary reads the result store and aggregates it into a Summary.
func BuildSummary(ctx context.Context, name string, results *store.Results) (*Summary, error) {
	counts, err := results.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate status counts: %w", err)
	}

	s := &Summary{Name: name}
	for status, count := range counts {
		s.Total += count
		if status < 200 || status >= 400 {
			s.Broken += count
		}
		s.Buckets = append(s.Buckets, StatusBucket{Status: status, Count: count})
	}
	sort.Slice(s.Buckets, func(i, j int) bool {
		// Zero means no response; sort it after real status codes.
		if (s.Buckets[i].Status == 0) != (s.Buckets[j].Status == 0) {
			return s.Buckets[j].Status == 0
		}
		return s.Buckets[i].Status < s.Buckets[j].Status
	})
	return s, nil
}

// SummaryWriter renders a Summary as an aligned terminal table.
type SummaryWriter struct {
	baseWriter
	noColor bool
}

// SummaryWriterOption configures a SummaryWriter.
type SummaryWriterOption func(*SummaryWriter)

// WithSummaryNoColor disables colored table headers.
func WithSummaryNoColor() SummaryWriterOption {
	return func(w *SummaryWriter) {
		w.noColor = true
	}
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer, opts ...SummaryWriterOption) *SummaryWriter {
	w := &SummaryWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the status-code breakdown followed by a one-line total.
func (w *SummaryWriter) Write(summary *Summary) error {
	fmt.Fprintf(w.output, "crawl %q finished: %d URLs checked, %d broken\n\n", summary.Name, summary.Total, summary.Broken)

	tbl := table.New("STATUS", "COUNT").WithWriter(w.output)
	if !w.noColor {
		tbl.WithHeaderFormatter(headerFormatter())
	}
	for _, b := range summary.Buckets {
		tbl.AddRow(b.Label(), b.Count)
	}
	tbl.Print()
	return nil
}

// WriteBroken renders the broken URLs with their status or error,
// one per line. Healthy records are skipped.
func (w *SummaryWriter) WriteBroken(ctx context.Context, results *store.Results) error {
	return results.Each(ctx, func(url string, rec *model.Record) error {
		if rec.OK() {
			return nil
		}
		if rec.Err != "" {
			fmt.Fprintf(w.output, "%s\terror: %s\n", url, rec.Err)
			return nil
		}
		fmt.Fprintf(w.output, "%s\tstatus: %d\n", url, rec.Status)
		return nil
	})
}
