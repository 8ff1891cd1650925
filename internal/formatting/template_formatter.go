package formatting

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateFormatter executes a Go template against the data. The data is
// converted to its JSON shape first, so templates address fields by their
// API names: {{ .shortName }}, {{ range . }}{{ .version }}{{ end }}.
type TemplateFormatter struct {
	options Options
	tmpl    *template.Template
}

// NewTemplateFormatter parses options.Template.
func NewTemplateFormatter(options Options) (Formatter, error) {
	if strings.TrimSpace(options.Template) == "" {
		return nil, errors.New("template output requires --template")
	}
	tmpl, err := template.New("output").Funcs(sprig.TxtFuncMap()).Parse(options.Template)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &TemplateFormatter{options: options, tmpl: tmpl}, nil
}

// Format executes the template and terminates the output with a newline.
func (f *TemplateFormatter) Format(w io.Writer, data any) error {
	generic, err := toGeneric(data)
	if err != nil {
		return err
	}
	var b strings.Builder
	if err := f.tmpl.Execute(&b, generic); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}

// Options returns the formatter options
func (f *TemplateFormatter) Options() Options {
	return f.options
}
