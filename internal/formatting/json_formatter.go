package formatting

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{options: options}
}

// Format writes data as indented JSON, or compact JSON in quiet mode.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	var (
		out []byte
		err error
	)
	if f.options.Quiet {
		out, err = json.Marshal(data)
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("format JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// Options returns the formatter options
func (f *JSONFormatter) Options() Options {
	return f.options
}
