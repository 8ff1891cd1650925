package config

import "time"

// MicoConfig is the top-level configuration structure for mico.
type MicoConfig struct {
	API    APIConfig    `yaml:"api"`
	Output OutputConfig `yaml:"output,omitempty"`
	Cache  CacheConfig  `yaml:"cache,omitempty"`
}

// APIConfig locates and authenticates against the MICO backend.
type APIConfig struct {
	URL       string        `yaml:"url"`                 // Backend API root (default: http://localhost:8080)
	Token     string        `yaml:"token,omitempty"`     // Static bearer token
	TokenFile string        `yaml:"tokenFile,omitempty"` // File holding the bearer token, reloaded on change
	Timeout   time.Duration `yaml:"timeout,omitempty"`   // Per-request timeout (default: 30s)
}

// OutputConfig holds the defaults of the output flags.
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"` // table, wide, json, yaml or template
	NoHeaders bool   `yaml:"noHeaders,omitempty"`
	NoColor   bool   `yaml:"noColor,omitempty"`
}

// CacheConfig bounds the resource stream registry.
type CacheConfig struct {
	MaxStreams int `yaml:"maxStreams,omitempty"` // 0 = unbounded
}
