package formatting

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// maxValueWidth truncates values in key/value tables.
const maxValueWidth = 100

// TableFormatter writes Tabular data as plain columns and anything else as a
// key/value table.
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{options: options}
}

// Format writes data as a table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if tab, ok := data.(Tabular); ok {
		return f.formatTabular(w, tab)
	}

	generic, err := toGeneric(data)
	if err != nil {
		return err
	}
	switch d := generic.(type) {
	case map[string]any:
		return f.formatObjectData(w, d)
	case []any:
		return f.formatArrayData(w, d)
	default:
		_, err := fmt.Fprintf(w, "%v\n", d)
		return err
	}
}

// Options returns the formatter options
func (f *TableFormatter) Options() Options {
	return f.options
}

func (f *TableFormatter) formatTabular(w io.Writer, tab Tabular) error {
	wide := f.options.Format == FormatWide
	rows := tab.Rows(wide)
	if len(rows) == 0 && !f.options.Quiet {
		_, err := fmt.Fprintln(w, f.emptyMessage("No resources found"))
		return err
	}

	tw := NewPlainTableWriter(w)
	tw.SetHeaders(tab.Headers(wide))
	tw.SetNoHeaders(f.options.NoHeaders)
	for _, row := range rows {
		tw.AppendRow(row)
	}
	return tw.Render()
}

// formatObjectData formats object data as key-value pairs
func (f *TableFormatter) formatObjectData(w io.Writer, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	t := f.createTable(w)
	if !f.options.NoHeaders {
		t.AppendHeader(table.Row{f.colorize(text.FgHiCyan, "KEY"), f.colorize(text.FgHiCyan, "VALUE")})
	}
	for _, key := range keys {
		value := fmt.Sprintf("%v", data[key])
		if nested, ok := data[key].(map[string]any); ok {
			value = PrettyJSON(nested)
		}
		if len(value) > maxValueWidth {
			value = value[:maxValueWidth-3] + "..."
		}
		t.AppendRow(table.Row{f.colorize(text.FgHiCyan, key), value})
	}
	t.Render()
	return nil
}

// formatArrayData lists array items one per line.
func (f *TableFormatter) formatArrayData(w io.Writer, data []any) error {
	if len(data) == 0 {
		_, err := fmt.Fprintln(w, f.emptyMessage("No items found"))
		return err
	}
	for i, item := range data {
		if _, err := fmt.Fprintf(w, "  %d. %v\n", i+1, item); err != nil {
			return err
		}
	}
	if f.options.Quiet {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%s %s %s\n",
		f.colorize(text.FgHiBlue, "Total:"),
		f.colorize(text.FgHiWhite, fmt.Sprint(len(data))),
		f.colorize(text.FgHiBlue, "items"))
	return err
}

func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) emptyMessage(message string) string {
	return f.colorize(text.FgYellow, message)
}

func (f *TableFormatter) colorize(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}
