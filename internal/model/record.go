package model

import "time"

// Record represents the outcome of visiting a single URL.
// It is immutable once constructed and is stored as JSON in the result store.
//
// Design decision: Record is a fixed-shape struct with explicit optional
// fields rather than an open property bag. A zero Status means the URL never
// received an HTTP status (invalid scheme, connection failure), and an empty
// Err means no error occurred. Keeping both explicit makes the OK derivation
// trivial to reason about and test.
type Record struct {
	// URL is the normalized absolute URL this record describes.
	URL string `json:"url"`

	// Links contains the absolute URLs referenced by anchor elements on
	// this page. Always empty for external URLs and for pages outside the
	// 2xx/3xx range.
	Links []string `json:"links,omitempty"`

	// Headers contains the HTTP response headers. Multi-valued headers are
	// joined with ", " so the record stays a flat string map.
	Headers map[string]string `json:"headers,omitempty"`

	// Status is the HTTP status code, or 0 if no response was received.
	Status int `json:"status,omitempty"`

	// Err describes the failure that prevented or interrupted the visit.
	// Empty when the fetch completed normally.
	Err string `json:"error,omitempty"`

	// FetchedAt is when the visit completed.
	FetchedAt time.Time `json:"fetched_at"`
}

// OK reports whether the visit succeeded: no error was recorded and the
// status code is in the [200, 400) range.
func (r *Record) OK() bool {
	return r.Err == "" && r.Status >= 200 && r.Status < 400
}

// HasStatus reports whether the URL received any HTTP status at all.
// Records without a status are grouped separately in the summary report.
func (r *Record) HasStatus() bool {
	return r.Status != 0
}
