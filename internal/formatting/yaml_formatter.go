package formatting

import (
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// YAMLFormatter writes YAML using the JSON field names of the data, so that
// -o yaml and -o json show the same keys.
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{options: options}
}

// Format writes data as YAML.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("format YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// Options returns the formatter options
func (f *YAMLFormatter) Options() Options {
	return f.options
}
