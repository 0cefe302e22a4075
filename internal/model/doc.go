// Package model defines the core data structures used throughout linkpatrol.
//
// This package contains the following main types:
//   - Record: The outcome of visiting a single URL
//   - Task: A pending unit of frontier work with its discovery trail
//   - Site: The crawl target derived from the seed URL
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Both the stores and the crawl engine need these types, so
// centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for database storage
// and report output.
package model
