package model

import (
	"fmt"
	"net/url"
	"strings"
)

// Site describes the crawl target derived from the seed URL.
type Site struct {
	// Seed is the URL the crawl starts from.
	Seed string

	// BaseURL is the seed's scheme and host[:port] with path, query, and
	// fragment discarded. URLs sharing this prefix are treated as internal.
	BaseURL string
}

// NewSite derives a Site from the seed URL.
// The seed must be an absolute http or https URL.
func NewSite(seed string) (*Site, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seed, err)
	}
	if !ValidScheme(seed) {
		return nil, fmt.Errorf("seed URL %q: scheme must be http or https", seed)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("seed URL %q: missing host", seed)
	}

	base := &url.URL{Scheme: u.Scheme, Host: u.Host}
	return &Site{
		Seed:    Normalize(seed),
		BaseURL: base.String(),
	}, nil
}

// IsInternal reports whether a URL belongs to the crawl target and is
// therefore eligible for link extraction.
//
// Known limitation: this is a textual prefix check, not parsed-host equality,
// so http://example.com.evil.com matches a base of http://example.com. The
// simplification is intentional; do not feed untrusted seeds to the crawler.
func (s *Site) IsInternal(rawURL string) bool {
	return strings.HasPrefix(rawURL, s.BaseURL)
}

// ValidScheme reports whether the URL's scheme is http or https.
// The check mirrors the frontier follow-policy: everything else
// (mailto:, ftp:, javascript:, relative paths) is rejected.
func ValidScheme(rawURL string) bool {
	scheme, _, ok := strings.Cut(rawURL, ":")
	if !ok {
		return false
	}
	return scheme == "http" || scheme == "https"
}

// Normalize strips the fragment from a URL. Two URLs differing only by
// fragment are the same key in both stores. No other canonicalization is
// applied: trailing slashes, case, and default ports are left alone, so
// equality stays exact string equality.
func Normalize(rawURL string) string {
	if i := strings.Index(rawURL, "#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
