package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venegas/diagcheck/pkg/schema"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()
	return New(nil, nil)
}

// --- End-to-end verdicts ---

func TestCheck_ValidFlowchart(t *testing.T) {
	r := newChecker(t).Check(context.Background(), "graph TD\n  A[Start] --> B[End]")
	require.True(t, r.Valid)
	assert.Equal(t, schema.TypeFlowchart, r.DiagramType)
	assert.GreaterOrEqual(t, r.NodeCount, 2)
	assert.Empty(t, r.Error)
}

func TestCheck_UnbalancedSquareBrackets(t *testing.T) {
	r := newChecker(t).Check(context.Background(), "flowchart TD\n  A[Start --> B[End]")
	require.False(t, r.Valid)
	assert.Contains(t, r.Error, "square brackets")
	assert.Equal(t, 2, r.Line)
	assert.NotEmpty(t, r.Suggestions)
}

func TestCheck_UnknownType(t *testing.T) {
	r := newChecker(t).Check(context.Background(), "not a diagram")
	require.False(t, r.Valid)
	assert.Equal(t, 1, r.Line)
	assert.Contains(t, r.Error, "sequenceDiagram")
	assert.Contains(t, r.Error, "flowchart")
}

func TestCheck_ValidSequence(t *testing.T) {
	r := newChecker(t).Check(context.Background(), "sequenceDiagram\n  participant A\n  A-->B: hi")
	require.True(t, r.Valid)
	assert.Equal(t, schema.TypeSequence, r.DiagramType)
}

func TestCheck_UnclosedSubgraph(t *testing.T) {
	r := newChecker(t).Check(context.Background(), "flowchart TD\n  subgraph g1\n  A-->B")
	require.False(t, r.Valid)
	assert.Equal(t, "Unclosed subgraph", r.Error)
	assert.Zero(t, r.Line)
}

// --- Stage ordering ---

func TestCheck_TypeDetectionBeforeBrackets(t *testing.T) {
	// An unknown type wins over an unbalanced bracket later on.
	r := newChecker(t).Check(context.Background(), "nope\nA[broken")
	require.False(t, r.Valid)
	assert.Equal(t, 1, r.Line)
	assert.Contains(t, r.Error, "Missing or unrecognized")
}

func TestCheck_BracketsBeforeTypeValidator(t *testing.T) {
	// The unbalanced bracket on line 2 is reported even though the
	// subgraph on line 3 is also unclosed.
	r := newChecker(t).Check(context.Background(), "graph TD\nA[bad\nsubgraph g")
	require.False(t, r.Valid)
	assert.Contains(t, r.Error, "square brackets")
	assert.Equal(t, 2, r.Line)
}

func TestCheck_GenericChecksOnlyForOtherTypes(t *testing.T) {
	r := newChecker(t).Check(context.Background(), "gantt\n  title Schedule\n  section Work")
	require.True(t, r.Valid)
	assert.Equal(t, schema.TypeGantt, r.DiagramType)
}

// --- Contract properties ---

func TestCheck_Idempotent(t *testing.T) {
	c := newChecker(t)
	text := "flowchart TD\n  A[Start --> B[End]"
	first := c.Check(context.Background(), text)
	second := c.Check(context.Background(), text)
	assert.Equal(t, first, second)
}

func TestCheck_EmptyInput(t *testing.T) {
	r := newChecker(t).Check(context.Background(), "")
	require.False(t, r.Valid)
	assert.Equal(t, 1, r.Line)
}

func TestCheck_FailureAlwaysCarriesSuggestions(t *testing.T) {
	c := newChecker(t)
	for _, text := range []string{
		"not a diagram",
		"graph TD\nA[bad",
		"graph TD\nA -->",
		"flowchart TD\nsubgraph g",
		"sequenceDiagram\nA->>: x",
	} {
		r := c.Check(context.Background(), text)
		require.False(t, r.Valid, "input %q", text)
		assert.NotEmpty(t, r.Suggestions, "input %q", text)
	}
}

// --- Custom rule hook ---

type stubRules struct {
	result *schema.Result
}

func (s *stubRules) Apply(_ context.Context, _ schema.DiagramType, _ []Line) *schema.Result {
	return s.result
}

func TestCheck_CustomRuleViolation(t *testing.T) {
	c := New(&stubRules{result: schema.Fail("no style lines", 2)}, nil)
	r := c.Check(context.Background(), "graph TD\nA --> B")
	require.False(t, r.Valid)
	assert.Equal(t, "no style lines", r.Error)
	assert.Equal(t, schema.TypeFlowchart, r.DiagramType)
	assert.NotEmpty(t, r.Suggestions)
}

func TestCheck_CustomRulesRunOnlyAfterBuiltinChecksPass(t *testing.T) {
	c := New(&stubRules{result: schema.Fail("rule", 1)}, nil)
	r := c.Check(context.Background(), "graph TD\nA[bad")
	require.False(t, r.Valid)
	assert.Contains(t, r.Error, "square brackets")
}
