package formatting

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// PlainTableWriter writes kubectl-style columns without box-drawing
// characters, so output can be piped to grep, awk or cut.
type PlainTableWriter struct {
	headers      []string
	rows         [][]string
	columnWidths []int
	minPadding   int
	showHeaders  bool
	output       io.Writer
}

// NewPlainTableWriter creates a writer that shows headers by default.
func NewPlainTableWriter(output io.Writer) *PlainTableWriter {
	return &PlainTableWriter{
		minPadding:  3,
		showHeaders: true,
		output:      output,
	}
}

// SetHeaders sets the column headers. Headers are upper-cased.
func (w *PlainTableWriter) SetHeaders(headers []string) {
	w.headers = make([]string, len(headers))
	w.columnWidths = make([]int, len(headers))
	for i, h := range headers {
		upper := strings.ToUpper(h)
		w.headers[i] = upper
		w.columnWidths[i] = cellWidth(upper)
	}
}

// SetNoHeaders controls whether to suppress the header row.
func (w *PlainTableWriter) SetNoHeaders(noHeaders bool) {
	w.showHeaders = !noHeaders
}

// AppendRow adds a row, padding or truncating it to the header count.
func (w *PlainTableWriter) AppendRow(row []string) {
	normalized := make([]string, len(w.headers))
	for i := range w.headers {
		if i < len(row) {
			normalized[i] = row[i]
			w.columnWidths[i] = max(w.columnWidths[i], cellWidth(row[i]))
		}
	}
	w.rows = append(w.rows, normalized)
}

// Render writes the table. Nothing is written without headers, or when there
// are no rows and headers are suppressed.
func (w *PlainTableWriter) Render() error {
	if len(w.headers) == 0 {
		return nil
	}
	if len(w.rows) == 0 && !w.showHeaders {
		return nil
	}

	if w.showHeaders {
		if err := w.printRow(w.headers); err != nil {
			return err
		}
	}
	for _, row := range w.rows {
		if err := w.printRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *PlainTableWriter) printRow(row []string) error {
	var sb strings.Builder
	for i, cell := range row {
		sb.WriteString(cell)
		if i < len(row)-1 {
			sb.WriteString(strings.Repeat(" ", w.columnWidths[i]-cellWidth(cell)+w.minPadding))
		}
	}
	_, err := io.WriteString(w.output, strings.TrimRight(sb.String(), " ")+"\n")
	return err
}

// cellWidth ignores ANSI color sequences and counts wide runes as two columns.
func cellWidth(s string) int {
	return text.RuneWidthWithoutEscSequences(s)
}
