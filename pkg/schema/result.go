package schema

// DiagramType identifies the grammar family a document declares on its
// first line.
type DiagramType string

const (
	TypeFlowchart DiagramType = "flowchart"
	TypeSequence  DiagramType = "sequence"
	TypeClass     DiagramType = "class"
	TypeState     DiagramType = "state"
	TypeER        DiagramType = "er"
	TypeGantt     DiagramType = "gantt"
	TypePie       DiagramType = "pie"
	TypeJourney   DiagramType = "journey"
	TypeGitGraph  DiagramType = "gitGraph"
	TypeMindmap   DiagramType = "mindmap"
	TypeTimeline  DiagramType = "timeline"
	TypeQuadrant  DiagramType = "quadrantChart"
	TypeUnknown   DiagramType = "unknown"
)

// Result is the verdict for one document. Exactly one shape is populated:
// a valid result carries the diagram type and node count, an invalid one
// carries the error, the offending line and remediation suggestions.
// An invalid result is terminal — the checker stops at the first violation.
type Result struct {
	Valid       bool        `json:"valid"`
	DiagramType DiagramType `json:"diagram_type,omitempty"`
	NodeCount   int         `json:"node_count,omitempty"`
	Error       string      `json:"error,omitempty"`
	Line        int         `json:"line,omitempty"` // 1-based; 0 means no line applies
	Suggestions []string    `json:"suggestions,omitempty"`
}

// Ok builds a valid result.
func Ok(typ DiagramType, nodeCount int) *Result {
	return &Result{Valid: true, DiagramType: typ, NodeCount: nodeCount}
}

// Fail builds an invalid result. line 0 means the error has no line
// association (e.g. an unclosed block detected at end of document).
func Fail(message string, line int, suggestions ...string) *Result {
	return &Result{Error: message, Line: line, Suggestions: suggestions}
}
