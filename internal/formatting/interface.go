// Package formatting renders command results in the output format chosen
// with --output: kubectl-style tables, JSON, YAML or a Go template.
package formatting

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable    OutputFormat = "table"    // Plain columns
	FormatWide     OutputFormat = "wide"     // Plain columns with extra detail
	FormatJSON     OutputFormat = "json"     // JSON output
	FormatYAML     OutputFormat = "yaml"     // YAML output
	FormatTemplate OutputFormat = "template" // Go template with sprig functions
)

// Formats lists every supported format in help order.
var Formats = []OutputFormat{FormatTable, FormatWide, FormatJSON, FormatYAML, FormatTemplate}

// ParseFormat validates a --output value.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatTable, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (use one of %v)", s, Formats)
}

// Options configures the formatter behavior
type Options struct {
	Format    OutputFormat
	Template  string // Template text for FormatTemplate
	NoHeaders bool   // Omit table headers
	Quiet     bool   // Compact output, no decorations
	Color     bool   // Enable colored output
}

// Tabular is implemented by results that know how to lay themselves out as
// table rows. Values that do not implement it are shown as key/value tables.
type Tabular interface {
	Headers(wide bool) []string
	Rows(wide bool) [][]string
}

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
	Options() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) (Formatter, error)
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) (Formatter, error) {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options), nil
	case FormatYAML:
		return NewYAMLFormatter(options), nil
	case FormatTemplate:
		return NewTemplateFormatter(options)
	case FormatTable, FormatWide, "":
		return NewTableFormatter(options), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", options.Format)
	}
}
