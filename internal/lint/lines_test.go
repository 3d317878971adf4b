package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines_Numbering(t *testing.T) {
	lines := SplitLines("graph TD\n  A --> B\n")
	require.Len(t, lines, 3)
	assert.Equal(t, 1, lines[0].Index)
	assert.Equal(t, 2, lines[1].Index)
	assert.Equal(t, 3, lines[2].Index)
	assert.Equal(t, "A --> B", lines[1].Trimmed)
	assert.Equal(t, "  A --> B", lines[1].Raw)
}

func TestSplitLines_EmptyInputYieldsOneBlankLine(t *testing.T) {
	lines := SplitLines("")
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Blank)
	assert.Equal(t, 1, lines[0].Index)
}

func TestSplitLines_BlankAndCommentClassification(t *testing.T) {
	lines := SplitLines("graph TD\n   \n%% a comment\nA --> B")
	require.Len(t, lines, 4)

	assert.True(t, lines[0].Content())
	assert.True(t, lines[1].Blank)
	assert.False(t, lines[1].Content())
	assert.True(t, lines[2].Comment)
	assert.False(t, lines[2].Content())
	assert.True(t, lines[3].Content())
}

func TestSplitLines_IndentedCommentIsComment(t *testing.T) {
	lines := SplitLines("graph TD\n    %% indented")
	require.Len(t, lines, 2)
	assert.True(t, lines[1].Comment)
}
