package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/nao1215/linkpatrol/internal/model"
	"github.com/nao1215/linkpatrol/internal/store"
)

// Exporter dumps all stored results to a writer in a machine-readable
// format.
type Exporter interface {
	// Export writes every stored record to output.
	Export(ctx context.Context, results *store.Results, output io.Writer) error
}

// csvRow is the flattened record shape used for CSV export.
// Link targets are joined with a space so the row stays single-line.
type csvRow struct {
	URL       string `csv:"url"`
	Status    int    `csv:"status"`
	OK        bool   `csv:"ok"`
	Error     string `csv:"error"`
	LinkCount int    `csv:"link_count"`
	Links     string `csv:"links"`
	FetchedAt string `csv:"fetched_at"`
}

// CSVExporter writes results as CSV with a header row.
type CSVExporter struct{}

// NewCSVExporter creates a CSVExporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes every stored record as one CSV row.
func (e *CSVExporter) Export(ctx context.Context, results *store.Results, output io.Writer) error {
	rows := []*csvRow{}
	err := results.Each(ctx, func(url string, rec *model.Record) error {
		rows = append(rows, &csvRow{
			URL:       url,
			Status:    rec.Status,
			OK:        rec.OK(),
			Error:     rec.Err,
			LinkCount: len(rec.Links),
			Links:     strings.Join(rec.Links, " "),
			FetchedAt: rec.FetchedAt.Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("read results for export: %w", err)
	}

	if err := gocsv.Marshal(rows, output); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}
	return nil
}

// JSONExporter writes results as a JSON array of records.
type JSONExporter struct {
	indent bool
}

// JSONExporterOption configures a JSONExporter.
type JSONExporterOption func(*JSONExporter)

// WithPrettyPrint enables indented JSON output.
func WithPrettyPrint() JSONExporterOption {
	return func(e *JSONExporter) {
		e.indent = true
	}
}

// NewJSONExporter creates a JSONExporter.
func NewJSONExporter(opts ...JSONExporterOption) *JSONExporter {
	e := &JSONExporter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes every stored record as one JSON array.
func (e *JSONExporter) Export(ctx context.Context, results *store.Results, output io.Writer) error {
	records := []*model.Record{}
	err := results.Each(ctx, func(_ string, rec *model.Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return fmt.Errorf("read results for export: %w", err)
	}

	enc := json.NewEncoder(output)
	if e.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}
