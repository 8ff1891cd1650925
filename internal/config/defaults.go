package config

import "time"

const (
	// DefaultAPIURL is the address of a locally port-forwarded backend.
	DefaultAPIURL = "http://localhost:8080"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultOutputFormat is used when neither config nor flags choose one.
	DefaultOutputFormat = "table"
)

// GetDefaultConfig returns default configuration
func GetDefaultConfig() MicoConfig {
	return MicoConfig{
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: DefaultTimeout,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
	}
}
