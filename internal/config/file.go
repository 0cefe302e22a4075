package config

import (
	"errors"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".linkpatrol"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// HostConfig holds per-host crawl settings. Keys in the file are the
// host[:port] of the seed URL.
type HostConfig struct {
	// Cookie is an HTTP cookie sent when crawling this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers for requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Workers overrides the global worker count for this host.
	Workers int `yaml:"workers,omitempty"`

	// MaxTrailDepth overrides the global trail depth cap for this host.
	MaxTrailDepth int `yaml:"maxTrailDepth,omitempty"`
}

// File represents the structure of the .linkpatrol configuration file.
type File struct {
	// Hosts maps host[:port] to host-specific settings.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`

	// Defaults contains settings applied to every host unless overridden.
	Defaults HostConfig `yaml:"defaults,omitempty"`
}

// HostConfig returns the merged configuration for a host.
func (cf *File) HostConfig(host string) HostConfig {
	result := cf.Defaults
	// The struct copy above still shares the Headers map; clone it so a
	// per-host merge never writes into the defaults.
	result.Headers = maps.Clone(cf.Defaults.Headers)

	if hc, ok := cf.Hosts[host]; ok {
		if hc.Cookie != "" {
			result.Cookie = hc.Cookie
		}
		if hc.UserAgent != "" {
			result.UserAgent = hc.UserAgent
		}
		if hc.Workers != 0 {
			result.Workers = hc.Workers
		}
		if hc.MaxTrailDepth != 0 {
			result.MaxTrailDepth = hc.MaxTrailDepth
		}
		if len(hc.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range hc.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}

// LoadConfigFile loads host configurations from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound so callers can
// decide whether a missing file matters (it does only when the path was
// given explicitly).
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Hosts == nil {
		cf.Hosts = make(map[string]HostConfig)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file:
//  1. If configPath is specified, use it directly
//  2. .linkpatrol in the current directory
//  3. .linkpatrol in the user's home directory
//
// Returns the path if found, or empty string if not.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
