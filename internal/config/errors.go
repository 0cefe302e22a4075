package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: package-level sentinel errors rather than error values
// created inside Validate. Callers can use errors.Is for programmatic
// handling while the messages stay human-readable.
var (
	// ErrNoStartURL is returned when no seed URL is provided.
	ErrNoStartURL = errors.New("no start URL specified")

	// ErrNoName is returned when no crawl name is provided. The name is
	// required because both store file paths are derived from it.
	ErrNoName = errors.New("no crawl name specified")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A zero timeout would make every request fail immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxTrailDepth is returned when trail tracking is enabled
	// with a non-positive depth cap.
	ErrInvalidMaxTrailDepth = errors.New("invalid max trail depth: must be positive when trail tracking is enabled")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")
)
