package model

import (
	"encoding/json"
	"testing"
	"time"
)

// TestRecordOK tests success classification across status and error combinations.
func TestRecordOK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record Record
		want   bool
	}{
		{
			name:   "200 without error is ok",
			record: Record{URL: "http://example.test/", Status: 200},
			want:   true,
		},
		{
			name:   "redirect status is ok",
			record: Record{URL: "http://example.test/", Status: 301},
			want:   true,
		},
		{
			name:   "399 is the last ok status",
			record: Record{URL: "http://example.test/", Status: 399},
			want:   true,
		},
		{
			name:   "404 is not ok",
			record: Record{URL: "http://example.test/missing", Status: 404},
			want:   false,
		},
		{
			name:   "500 is not ok",
			record: Record{URL: "http://example.test/", Status: 500},
			want:   false,
		},
		{
			name:   "no status with fetch error is not ok",
			record: Record{URL: "http://example.test/", Err: "connection refused"},
			want:   false,
		},
		{
			name:   "200 with error is not ok",
			record: Record{URL: "http://example.test/", Status: 200, Err: "body truncated"},
			want:   false,
		},
		{
			name:   "zero record is not ok",
			record: Record{},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.record.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRecordHasStatus tests the errored-before-status classification.
func TestRecordHasStatus(t *testing.T) {
	t.Parallel()

	withStatus := Record{URL: "http://example.test/", Status: 404}
	if !withStatus.HasStatus() {
		t.Error("record with status 404 should report HasStatus")
	}

	withoutStatus := Record{URL: "http://example.test/", Err: "timeout"}
	if withoutStatus.HasStatus() {
		t.Error("record without a status should not report HasStatus")
	}
}

// TestRecordJSONRoundTrip verifies records survive store serialization.
func TestRecordJSONRoundTrip(t *testing.T) {
	t.Parallel()

	original := Record{
		URL:       "http://example.test/page",
		Links:     []string{"http://example.test/a", "http://example.test/b"},
		Headers:   map[string]string{"Content-Type": "text/html"},
		Status:    200,
		FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("failed to marshal record: %v", err)
	}

	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal record: %v", err)
	}

	if decoded.URL != original.URL {
		t.Errorf("URL = %q, want %q", decoded.URL, original.URL)
	}
	if len(decoded.Links) != 2 {
		t.Errorf("len(Links) = %d, want 2", len(decoded.Links))
	}
	if decoded.Headers["Content-Type"] != "text/html" {
		t.Errorf("Content-Type = %q, want text/html", decoded.Headers["Content-Type"])
	}
	if decoded.Status != 200 {
		t.Errorf("Status = %d, want 200", decoded.Status)
	}
	if !decoded.FetchedAt.Equal(original.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", decoded.FetchedAt, original.FetchedAt)
	}
}
