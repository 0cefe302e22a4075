// Package config provides configuration structures and utilities for
// linkpatrol. It defines the crawl options populated from CLI flags and the
// optional .linkpatrol YAML file with per-host overrides.
package config
