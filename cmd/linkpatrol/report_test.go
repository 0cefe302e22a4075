package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/linkpatrol/internal/model"
	"github.com/nao1215/linkpatrol/internal/store"
)

// seedResultStore creates a result store under dataDir with a few records.
func seedResultStore(t *testing.T, dataDir, name string) {
	t.Helper()

	results, err := store.OpenResults(store.ResultsPath(dataDir, name), store.DefaultOptions())
	if err != nil {
		t.Fatalf("open result store: %v", err)
	}
	defer results.Close()

	ctx := context.Background()
	fetched := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []*model.Record{
		{URL: "http://example.test/", Status: 200, Links: []string{"http://example.test/gone"}, FetchedAt: fetched},
		{URL: "http://example.test/gone", Status: 404, FetchedAt: fetched},
		{URL: "http://offline.test/", Err: "connection refused", FetchedAt: fetched},
	}
	for _, rec := range records {
		if err := results.Put(ctx, rec); err != nil {
			t.Fatalf("seed record %s: %v", rec.URL, err)
		}
	}
}

func TestReportCmd(t *testing.T) {
	t.Parallel()

	t.Run("terminal summary with broken list", func(t *testing.T) {
		t.Parallel()

		dataDir := t.TempDir()
		seedResultStore(t, dataDir, "mysite")

		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"report", "--data-dir", dataDir, "--no-color", "mysite"})

		if got := execute(cmd); got != exitCodeOK {
			t.Fatalf("expected exit code 0, got %d; output:\n%s", got, out.String())
		}

		output := out.String()
		if !strings.Contains(output, "3 URLs checked, 2 broken") {
			t.Errorf("expected totals line, got:\n%s", output)
		}
		if !strings.Contains(output, "http://example.test/gone") {
			t.Errorf("expected broken URL in output, got:\n%s", output)
		}
		if !strings.Contains(output, "connection refused") {
			t.Errorf("expected fetch error in output, got:\n%s", output)
		}
	})

	t.Run("markdown report to file", func(t *testing.T) {
		t.Parallel()

		dataDir := t.TempDir()
		seedResultStore(t, dataDir, "mysite")
		outPath := filepath.Join(t.TempDir(), "reports", "out.md")

		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"report", "--data-dir", dataDir, "--markdown", "--output", outPath, "mysite"})

		if got := execute(cmd); got != exitCodeOK {
			t.Fatalf("expected exit code 0, got %d; output:\n%s", got, out.String())
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("read markdown report: %v", err)
		}
		if !strings.Contains(string(data), "# Link check report: mysite") {
			t.Errorf("expected markdown title, got:\n%s", data)
		}
		if !strings.Contains(string(data), "http://example.test/gone") {
			t.Errorf("expected broken URL in markdown, got:\n%s", data)
		}
	})

	t.Run("missing crawl fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"report", "--data-dir", t.TempDir(), "nope"})

		if got := execute(cmd); got != exitCodeError {
			t.Errorf("expected exit code 1, got %d", got)
		}
	})
}

func TestExportCmd(t *testing.T) {
	t.Parallel()

	t.Run("csv to stdout", func(t *testing.T) {
		t.Parallel()

		dataDir := t.TempDir()
		seedResultStore(t, dataDir, "mysite")

		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"export", "--data-dir", dataDir, "--format", "csv", "mysite"})

		if got := execute(cmd); got != exitCodeOK {
			t.Fatalf("expected exit code 0, got %d; output:\n%s", got, out.String())
		}

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 4 { // header + 3 records
			t.Errorf("expected 4 CSV lines, got %d:\n%s", len(lines), out.String())
		}
	})

	t.Run("json to file", func(t *testing.T) {
		t.Parallel()

		dataDir := t.TempDir()
		seedResultStore(t, dataDir, "mysite")
		outPath := filepath.Join(t.TempDir(), "results.json")

		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"export", "--data-dir", dataDir, "--format", "json", "--pretty", "--output", outPath, "mysite"})

		if got := execute(cmd); got != exitCodeOK {
			t.Fatalf("expected exit code 0, got %d; output:\n%s", got, out.String())
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("read JSON export: %v", err)
		}
		var records []*model.Record
		if err := json.Unmarshal(data, &records); err != nil {
			t.Fatalf("invalid JSON export: %v", err)
		}
		if len(records) != 3 {
			t.Errorf("expected 3 records, got %d", len(records))
		}
	})
}
