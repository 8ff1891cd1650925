package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// outputFormats mirrors the formats the CLI accepts.
var outputFormats = []string{"table", "wide", "json", "yaml", "template"}

// Validate checks a loaded configuration.
func Validate(config MicoConfig) error {
	var errs ValidationErrors

	if err := ValidateAPIURL(config.API.URL); err != nil {
		var ve ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, ve)
		}
	}
	if config.API.Timeout < 0 {
		errs.Add("api.timeout", "must not be negative", config.API.Timeout)
	}
	if config.Output.Format != "" {
		if err := ValidateOneOf("output.format", config.Output.Format, outputFormats); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}
	if config.Cache.MaxStreams < 0 {
		errs.Add("cache.maxStreams", "must not be negative", config.Cache.MaxStreams)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidateAPIURL checks that raw is an absolute http(s) URL.
func ValidateAPIURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ValidationError{Field: "api.url", Value: raw, Message: "is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{Field: "api.url", Value: raw, Message: "must be an absolute http or https URL"}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// FormatValidationError wraps err as a validation ConfigurationError.
func FormatValidationError(filePath string, err error) error {
	if err == nil {
		return nil
	}
	cfgErr := NewConfigurationError(filePath, "validation", err.Error())
	cfgErr.Suggestions = []string{"run 'mico --help' to see the accepted flag values"}
	return cfgErr
}
