package crawler

import (
	"net/url"
	"slices"
	"testing"
)

// mustParse parses a URL or fails the test.
func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()

	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", rawURL, err)
	}
	return u
}

// TestExtractLinks tests anchor extraction, resolution, and filtering.
func TestExtractLinks(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "http://example.test")

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "relative links resolve against the base",
			html: `<html><body>
				<a href="/about">About</a>
				<a href="contact.html">Contact</a>
			</body></html>`,
			want: []string{
				"http://example.test/about",
				"http://example.test/contact.html",
			},
		},
		{
			name: "absolute links pass through",
			html: `<a href="http://other.test/page">external</a>`,
			want: []string{"http://other.test/page"},
		},
		{
			name: "fragments are stripped and deduplicated",
			html: `<a href="/page#intro">a</a><a href="/page#details">b</a>`,
			want: []string{"http://example.test/page"},
		},
		{
			name: "pseudo schemes are dropped",
			html: `<a href="javascript:void(0)">x</a>
				<a href="mailto:a@example.test">y</a>
				<a href="tel:+123">z</a>
				<a href="#">top</a>
				<a href="/real">real</a>`,
			want: []string{"http://example.test/real"},
		},
		{
			name: "query strings stay distinct",
			html: `<a href="/search?q=1">one</a><a href="/search?q=2">two</a>`,
			want: []string{
				"http://example.test/search?q=1",
				"http://example.test/search?q=2",
			},
		},
		{
			name: "nested and malformed markup still yields anchors",
			html: `<div><p><a href="/deep">deep</a></p><a href="/unclosed">oops`,
			want: []string{
				"http://example.test/deep",
				"http://example.test/unclosed",
			},
		},
		{
			name: "no anchors means no links",
			html: `<html><body><p>plain text</p></body></html>`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractLinks([]byte(tt.html), "text/html; charset=utf-8", base)
			if err != nil {
				t.Fatalf("extract failed: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("links = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestExtractLinksSorted verifies deterministic output order.
func TestExtractLinksSorted(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "http://example.test")
	html := `<a href="/c">c</a><a href="/a">a</a><a href="/b">b</a>`

	got, err := ExtractLinks([]byte(html), "text/html", base)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !slices.IsSorted(got) {
		t.Errorf("links are not sorted: %v", got)
	}
}
