package lint

import (
	"strings"

	"github.com/venegas/diagcheck/pkg/schema"
)

// typeRegistry maps declaration keywords to diagram types. Matching is a
// plain prefix test in registry order, so order matters for keywords that
// share a prefix. A line like "graphTheMovie" still matches "graph";
// keyword-boundary matching would change accepted inputs and is
// deliberately not done.
var typeRegistry = []struct {
	keyword string
	typ     schema.DiagramType
}{
	{"graph", schema.TypeFlowchart},
	{"flowchart", schema.TypeFlowchart},
	{"sequenceDiagram", schema.TypeSequence},
	{"classDiagram", schema.TypeClass},
	{"stateDiagram", schema.TypeState},
	{"erDiagram", schema.TypeER},
	{"gitGraph", schema.TypeGitGraph},
	{"journey", schema.TypeJourney},
	{"gantt", schema.TypeGantt},
	{"pie", schema.TypePie},
	{"quadrantChart", schema.TypeQuadrant},
	{"mindmap", schema.TypeMindmap},
	{"timeline", schema.TypeTimeline},
}

// DetectType resolves the diagram type from the first line of the
// document. The first line is inspected even when it is blank or a
// comment: a document that opens with an empty line is reported as
// unrecognized rather than skipped.
func DetectType(lines []Line) schema.DiagramType {
	if len(lines) == 0 {
		return schema.TypeUnknown
	}
	first := lines[0].Trimmed
	for _, entry := range typeRegistry {
		if strings.HasPrefix(first, entry.keyword) {
			return entry.typ
		}
	}
	return schema.TypeUnknown
}

// TypeKeywords returns the registered declaration keywords in match order.
func TypeKeywords() []string {
	keywords := make([]string, len(typeRegistry))
	for i, entry := range typeRegistry {
		keywords[i] = entry.keyword
	}
	return keywords
}

// unknownTypeResult builds the failure for a document whose first line
// does not start with any registered keyword.
func unknownTypeResult() *schema.Result {
	return schema.Fail(
		"Missing or unrecognized diagram type. Valid types: "+strings.Join(TypeKeywords(), ", "),
		1,
		`Start the document with a diagram type declaration, e.g. "flowchart TD" or "sequenceDiagram"`,
	)
}
