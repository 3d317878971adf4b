package lint

import "strings"

// commentMarker starts a Mermaid comment line.
const commentMarker = "%%"

// Line is one line of the input document, derived once per check and
// never mutated.
type Line struct {
	Index   int    // 1-based position in the document
	Raw     string
	Trimmed string
	Blank   bool
	Comment bool
}

// Content reports whether the line carries checkable content
// (not blank, not a comment).
func (l Line) Content() bool {
	return !l.Blank && !l.Comment
}

// SplitLines splits raw text into ordered, 1-indexed lines.
// Empty input yields a single blank line.
func SplitLines(text string) []Line {
	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, raw := range parts {
		trimmed := strings.TrimSpace(raw)
		lines[i] = Line{
			Index:   i + 1,
			Raw:     raw,
			Trimmed: trimmed,
			Blank:   trimmed == "",
			Comment: strings.HasPrefix(trimmed, commentMarker),
		}
	}
	return lines
}
