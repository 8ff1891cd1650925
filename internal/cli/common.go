package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
)

// FormatError formats an error message for CLI output, followed by a hint
// line when one applies.
func FormatError(err error) string {
	msg := text.FgRed.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n" + text.Faint.Sprintf("Hint: %s", hint)
	}
	return msg
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return text.FgGreen.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return text.FgYellow.Sprint(fmt.Sprintf("⚠ %s", msg))
}
