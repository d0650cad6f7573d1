package report

import "strings"

// Titles keep at least this many runes even when the rest of the line
// overflows the budget.
const minTitleRunes = 8

// Digest renders one line per entry, each "time | location | title |
// source", optimized for pasting into a text message. Lines are capped at
// maxLineRunes by truncating the title only, so the source always survives.
// Zero or negative maxLineRunes disables the cap. An empty report yields an
// empty string, not an error.
func Digest(r Report, maxLineRunes int) string {
	if len(r.Entries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range r.Entries {
		b.WriteString(Line(e, maxLineRunes))
		b.WriteString("\n")
	}
	return b.String()
}

// Line formats a single digest line for an entry.
func Line(e Entry, maxLineRunes int) string {
	full := e.TimeLocal + " | " + e.Location + " | " + e.Title + " | " + e.SourceShort
	if maxLineRunes <= 0 || len([]rune(full)) <= maxLineRunes {
		return full
	}

	overhead := len([]rune(e.TimeLocal)) + len([]rune(e.Location)) + len([]rune(e.SourceShort)) + len([]rune(" |  |  | "))
	budget := maxLineRunes - overhead - 1 // room for the ellipsis
	if budget < minTitleRunes {
		budget = minTitleRunes
	}
	title := []rune(e.Title)
	if len(title) > budget {
		title = title[:budget]
	}
	return e.TimeLocal + " | " + e.Location + " | " + strings.TrimSpace(string(title)) + "… | " + e.SourceShort
}
