// Package log provides logging for linkpatrol, built on the standard slog
// package.
//
// Crawl logs routinely carry response headers, and response headers
// routinely carry credentials: Set-Cookie values, Authorization echoes,
// API keys on misconfigured sites. The RedactHandler masks those values
// before they reach the underlying handler, so a verbose crawl log can be
// shared without leaking session material for every host it touched.
package log
