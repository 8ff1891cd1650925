package strings

import (
	"strings"
)

// DefaultDescriptionMaxLen is the width descriptions are cut to in table cells.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen is the smallest maxLen TruncateDescription accepts; smaller
// values are raised to it.
const MinTruncateLen = 4

// Placeholder is shown in table cells whose value is blank.
const Placeholder = "-"

// TruncateDescription collapses all whitespace in s to single spaces and cuts
// the result to maxLen runes, ending in "..." when cut.
func TruncateDescription(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// OrPlaceholder returns s, or Placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// Cell prepares free text for a table cell: truncated to the default
// description width, or Placeholder when blank.
func Cell(s string) string {
	return OrPlaceholder(TruncateDescription(s, DefaultDescriptionMaxLen))
}
