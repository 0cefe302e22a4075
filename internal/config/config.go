package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Conservative defaults (sequential
// crawling, trail depth cap) keep the tool polite out of the box; flags
// relax them.
const (
	// DefaultTimeout bounds each individual HTTP request. A hung request
	// must never stall the whole crawl, so the fetcher always carries a
	// timeout even though the engine itself has none.
	DefaultTimeout = 30 * time.Second

	// DefaultWorkers of 1 preserves strictly sequential crawling: one URL
	// is fetched, recorded, and expanded before the next is popped.
	// Crawling is I/O bound, so a handful of workers speeds things up
	// considerably on real sites.
	DefaultWorkers = 1

	// DefaultMaxTrailDepth caps the discovery-trail length. Five referring
	// hops is enough for real site structure while cutting off endless
	// generated link chains (faceted search, calendars).
	DefaultMaxTrailDepth = 5

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is sufficient for HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies linkpatrol in HTTP requests. A
	// descriptive User-Agent lets operators identify scanner traffic.
	DefaultUserAgent = "linkpatrol/1.0 (+https://github.com/nao1215/linkpatrol)"

	// DefaultDelay is the politeness pause between requests. Zero keeps
	// the crawl as fast as the site allows; set --delay to be gentler.
	DefaultDelay = 0 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "linkpatrol"
)

// Config holds all options for a crawl. It is populated from CLI flags and
// the optional config file, then passed through the application by
// dependency injection rather than global state.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The option count is manageable and nesting would add complexity without
// benefit.
type Config struct {
	// StartURL is the seed URL the crawl begins from.
	StartURL string

	// Name identifies the crawl. The two store files are derived from it:
	// <name>.frontier and <name>.results under DataDir. Re-running with
	// the same name resumes the crawl.
	Name string

	// DataDir is the directory holding the store files.
	// Defaults to the XDG data directory for linkpatrol.
	DataDir string

	// Workers is the number of concurrent fetch workers.
	Workers int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// TrailTracking enables the discovery-trail depth cap. When false all
	// links are treated uniformly and crawl depth is unbounded.
	TrailTracking bool

	// MaxTrailDepth is the trail length at which URLs stop being followed.
	// Only used when TrailTracking is true.
	MaxTrailDepth int

	// Delay is the politeness pause after each processed URL.
	Delay time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// NoColor disables ANSI colors in the progress line.
	NoColor bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .linkpatrol in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// HostConfigs holds per-host settings loaded from the config file.
	HostConfigs *File
}

// NewConfig creates a Config with default values.
//
// Design decision: a constructor rather than relying on zero values because
// several defaults are non-zero, and the constructor doubles as
// documentation of what they are.
func NewConfig() *Config {
	return &Config{
		DataDir:       XDGDataDir(),
		Workers:       DefaultWorkers,
		Timeout:       DefaultTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		TrailTracking: true,
		MaxTrailDepth: DefaultMaxTrailDepth,
		Delay:         DefaultDelay,
	}
}

// XDGDataDir returns the XDG data directory for linkpatrol.
// On Linux: ~/.local/share/linkpatrol
// On macOS: ~/Library/Application Support/linkpatrol
// On Windows: %LOCALAPPDATA%\linkpatrol
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for linkpatrol.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after CLI parsing, before any store is opened, so
// mistakes fail fast with a clear message.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}
	if c.Name == "" {
		return ErrNoName
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.TrailTracking && c.MaxTrailDepth <= 0 {
		return ErrInvalidMaxTrailDepth
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	return nil
}
