package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/linkpatrol/internal/model"
)

// setupResults creates a temporary result store for testing.
func setupResults(t *testing.T) *Results {
	t.Helper()

	path := ResultsPath(t.TempDir(), "test")
	r, err := OpenResults(path, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open results: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	return r
}

// TestResultsPutGet tests the basic store round trip.
func TestResultsPutGet(t *testing.T) {
	t.Parallel()

	r := setupResults(t)
	ctx := context.Background()

	rec := &model.Record{
		URL:       "http://example.test/page",
		Links:     []string{"http://example.test/a"},
		Headers:   map[string]string{"Content-Type": "text/html; charset=utf-8"},
		Status:    200,
		FetchedAt: time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
	}
	if err := r.Put(ctx, rec); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := r.Get(ctx, rec.URL)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.URL != rec.URL || got.Status != 200 || got.Err != "" {
		t.Errorf("unexpected record: %+v", got)
	}
	if len(got.Links) != 1 || got.Links[0] != "http://example.test/a" {
		t.Errorf("links did not survive the round trip: %v", got.Links)
	}
	if got.Headers["Content-Type"] != "text/html; charset=utf-8" {
		t.Errorf("headers did not survive the round trip: %v", got.Headers)
	}

	if _, err := r.Get(ctx, "http://example.test/unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get for unknown URL = %v, want ErrNotFound", err)
	}
}

// TestResultsContains tests the existence check used by the follow-policy.
func TestResultsContains(t *testing.T) {
	t.Parallel()

	r := setupResults(t)
	ctx := context.Background()

	if err := r.Put(ctx, &model.Record{URL: "http://example.test/done", Status: 200}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	contains, err := r.Contains(ctx, "http://example.test/done")
	if err != nil {
		t.Fatalf("contains failed: %v", err)
	}
	if !contains {
		t.Error("stored URL should be reported as present")
	}

	contains, err = r.Contains(ctx, "http://example.test/pending")
	if err != nil {
		t.Fatalf("contains failed: %v", err)
	}
	if contains {
		t.Error("unknown URL should not be reported as present")
	}
}

// TestResultsEach tests full iteration, including restartability.
func TestResultsEach(t *testing.T) {
	t.Parallel()

	r := setupResults(t)
	ctx := context.Background()

	urls := []string{
		"http://example.test/",
		"http://example.test/a",
		"http://example.test/b",
	}
	for _, u := range urls {
		if err := r.Put(ctx, &model.Record{URL: u, Status: 200}); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	// Two passes must both see every record.
	for pass := 0; pass < 2; pass++ {
		seen := make(map[string]bool)
		err := r.Each(ctx, func(url string, rec *model.Record) error {
			seen[url] = true
			if rec.URL != url {
				t.Errorf("record URL %q stored under key %q", rec.URL, url)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("pass %d failed: %v", pass, err)
		}
		if len(seen) != len(urls) {
			t.Errorf("pass %d saw %d records, want %d", pass, len(seen), len(urls))
		}
	}

	// An error from the callback stops the pass.
	wantErr := errors.New("stop")
	if err := r.Each(ctx, func(string, *model.Record) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("callback error was not surfaced: %v", err)
	}
}

// TestResultsStatusCounts tests summary grouping, including the no-status bucket.
func TestResultsStatusCounts(t *testing.T) {
	t.Parallel()

	r := setupResults(t)
	ctx := context.Background()

	records := []*model.Record{
		{URL: "http://example.test/", Status: 200},
		{URL: "http://example.test/a", Status: 200},
		{URL: "http://example.test/missing", Status: 404},
		{URL: "http://broken.test/", Err: "connection refused"},
	}
	for _, rec := range records {
		if err := r.Put(ctx, rec); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	counts, err := r.StatusCounts(ctx)
	if err != nil {
		t.Fatalf("status counts failed: %v", err)
	}

	want := map[int]int{200: 2, 404: 1, 0: 1}
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("counts[%d] = %d, want %d", status, counts[status], n)
		}
	}
	if len(counts) != len(want) {
		t.Errorf("unexpected status buckets: %v", counts)
	}

	count, err := r.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != len(records) {
		t.Errorf("count = %d, want %d", count, len(records))
	}
}

// TestResultsSurvivesReopen verifies records persist across restarts.
func TestResultsSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := ResultsPath(t.TempDir(), "resume")
	ctx := context.Background()

	r, err := OpenResults(path, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open results: %v", err)
	}
	if err := r.Put(ctx, &model.Record{URL: "http://example.test/kept", Status: 301}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := OpenResults(path, Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("failed to reopen results: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "http://example.test/kept")
	if err != nil {
		t.Fatalf("get after reopen failed: %v", err)
	}
	if got.Status != 301 {
		t.Errorf("status = %d, want 301", got.Status)
	}
}
