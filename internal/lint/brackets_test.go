package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceBrackets_Balanced(t *testing.T) {
	lines := SplitLines("graph TD\nA[Start] --> B(End)\nC{Choice}")
	assert.Nil(t, BalanceBrackets(lines))
}

func TestBalanceBrackets_MissingSquareBracket(t *testing.T) {
	lines := SplitLines("flowchart TD\n  A[Start --> B[End]")
	r := BalanceBrackets(lines)
	require.NotNil(t, r)
	assert.Contains(t, r.Error, "square brackets")
	assert.Equal(t, 2, r.Line)
	require.NotEmpty(t, r.Suggestions)
}

func TestBalanceBrackets_MissingParen(t *testing.T) {
	lines := SplitLines("graph TD\nA(Start --> B")
	r := BalanceBrackets(lines)
	require.NotNil(t, r)
	assert.Contains(t, r.Error, "parentheses")
	assert.Equal(t, 2, r.Line)
}

func TestBalanceBrackets_MissingBrace(t *testing.T) {
	lines := SplitLines("graph TD\nA{Choice --> B")
	r := BalanceBrackets(lines)
	require.NotNil(t, r)
	assert.Contains(t, r.Error, "curly braces")
}

func TestBalanceBrackets_FirstViolationWins(t *testing.T) {
	lines := SplitLines("graph TD\nA[bad\nB(also bad")
	r := BalanceBrackets(lines)
	require.NotNil(t, r)
	assert.Equal(t, 2, r.Line)
	assert.Contains(t, r.Error, "square brackets")
}

func TestBalanceBrackets_PerLineOnly(t *testing.T) {
	// A bracket opened on one line and closed on the next is a
	// violation on the opening line, not a balanced pair.
	lines := SplitLines("graph TD\nA[Start\n]")
	r := BalanceBrackets(lines)
	require.NotNil(t, r)
	assert.Equal(t, 2, r.Line)
}

func TestBalanceBrackets_SkipsBlankAndCommentLines(t *testing.T) {
	lines := SplitLines("graph TD\n%% [ unbalanced in comment\n\nA --> B")
	assert.Nil(t, BalanceBrackets(lines))
}
