package lint

import (
	"regexp"
	"strings"

	"github.com/venegas/diagcheck/pkg/schema"
)

const (
	subgraphKeyword = "subgraph"
	endKeyword      = "end"
)

// connectorRe matches the flowchart connector tokens. Longer tokens come
// first so "-.->" is not consumed as "---" plus leftovers.
var connectorRe = regexp.MustCompile(`-\.->|-->|---|==>`)

// splitConnectors splits a line on connector tokens and returns the
// trimmed non-empty segments.
func splitConnectors(text string) []string {
	var segments []string
	for _, seg := range connectorRe.Split(text, -1) {
		if trimmed := strings.TrimSpace(seg); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}

// validateFlowchart applies the flowchart-family checks: subgraph
// open/close tracking and arrow connectivity.
//
// Subgraph nesting is tracked with a depth counter, so nested subgraphs
// each require their own "end". Stray "end" lines outside any subgraph
// are ignored.
func validateFlowchart(lines []Line) *schema.Result {
	depth := 0
	for _, line := range lines {
		if !line.Content() {
			continue
		}
		if strings.HasPrefix(line.Trimmed, subgraphKeyword) {
			depth++
			continue
		}
		if line.Trimmed == endKeyword {
			if depth > 0 {
				depth--
			}
			continue
		}
		if connectorRe.MatchString(line.Trimmed) {
			if len(splitConnectors(line.Trimmed)) < 2 {
				return schema.Fail("Invalid arrow syntax", line.Index,
					"Arrows connect two nodes, e.g. A --> B")
			}
		}
	}
	if depth != 0 {
		return schema.Fail("Unclosed subgraph", 0,
			`Close every subgraph with an "end" line`)
	}
	return nil
}
