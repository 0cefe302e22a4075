package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactHandlerMasksSensitiveKeys tests masking by attribute key.
func TestRedactHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
		mask  bool
	}{
		{"set-cookie header", "Set-Cookie", "session=abc123", true},
		{"authorization header", "Authorization", "Bearer tok", true},
		{"cookie", "cookie", "sid=1", true},
		{"x-api-key", "X-Api-Key", "k-123", true},
		{"plain url attr", "url", "http://example.test/", false},
		{"plain status attr", "status", "200", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

			logger.Info("fetched", tt.key, tt.value)

			out := buf.String()
			if tt.mask {
				if strings.Contains(out, tt.value) {
					t.Errorf("sensitive value leaked: %s", out)
				}
				if !strings.Contains(out, MaskValue) {
					t.Errorf("mask marker missing: %s", out)
				}
			} else {
				if !strings.Contains(out, tt.value) {
					t.Errorf("benign value was masked: %s", out)
				}
			}
		})
	}
}

// TestRedactHandlerMasksInsideGroups tests recursion into header groups.
func TestRedactHandlerMasksInsideGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("response",
		slog.Group("headers",
			slog.String("Content-Type", "text/html"),
			slog.String("Set-Cookie", "session=topsecret"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "topsecret") {
		t.Errorf("grouped sensitive value leaked: %s", out)
	}
	if !strings.Contains(out, "text/html") {
		t.Errorf("benign grouped value was masked: %s", out)
	}
}

// TestNewLogger tests level selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	NewLogger(&quiet, false).Debug("hidden")
	if quiet.Len() != 0 {
		t.Errorf("debug output should be suppressed without verbose: %s", quiet.String())
	}

	var verbose bytes.Buffer
	NewLogger(&verbose, true).Debug("visible")
	if !strings.Contains(verbose.String(), "visible") {
		t.Errorf("debug output missing in verbose mode: %s", verbose.String())
	}
}
