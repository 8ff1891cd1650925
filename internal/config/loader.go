package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mico/pkg/logging"
)

const (
	userConfigDir  = ".config/mico"
	configFileName = "config.yaml"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL    = "MICO_API_URL"
	EnvToken     = "MICO_TOKEN"
	EnvTokenFile = "MICO_TOKEN_FILE"
)

// GetDefaultConfigPath returns ~/.config/mico.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath on top of the defaults.
func LoadConfig(configPath string) (MicoConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return MicoConfig{}, NewConfigurationError(configFilePath, "io", err.Error())
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		cfgErr := NewConfigurationError(configFilePath, "parse", err.Error())
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			cfgErr.Suggestions = append(cfgErr.Suggestions, "check the value types, e.g. timeout: 30s")
		}
		return MicoConfig{}, cfgErr
	}

	if err := Validate(config); err != nil {
		return MicoConfig{}, FormatValidationError(configFilePath, err)
	}

	logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// ApplyEnv overrides config values with the MICO_* environment variables
// found through getenv. Empty variables are ignored.
func ApplyEnv(config MicoConfig, getenv func(string) string) MicoConfig {
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		config.API.URL = v
	}
	if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
		config.API.Token = v
	}
	if v := strings.TrimSpace(getenv(EnvTokenFile)); v != "" {
		config.API.TokenFile = v
	}
	return config
}
