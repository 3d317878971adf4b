package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Result ---

func TestOk(t *testing.T) {
	r := Ok(TypeFlowchart, 4)
	assert.True(t, r.Valid)
	assert.Equal(t, TypeFlowchart, r.DiagramType)
	assert.Equal(t, 4, r.NodeCount)
	assert.Empty(t, r.Error)
	assert.Zero(t, r.Line)
}

func TestFail(t *testing.T) {
	r := Fail("Unbalanced square brackets", 2, "Check bracket pairs")
	assert.False(t, r.Valid)
	assert.Equal(t, "Unbalanced square brackets", r.Error)
	assert.Equal(t, 2, r.Line)
	assert.Equal(t, []string{"Check bracket pairs"}, r.Suggestions)
}

func TestFail_NoLine(t *testing.T) {
	r := Fail("Unclosed subgraph", 0)
	assert.Zero(t, r.Line)

	// A document-level failure must not serialize a line field.
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"line"`)
}

func TestResult_InvalidOmitsValidFields(t *testing.T) {
	data, err := json.Marshal(Fail("broken", 1))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "node_count")
	assert.Contains(t, string(data), `"valid":false`)
}

// --- DiagError ---

func TestDiagError_Error(t *testing.T) {
	err := NewError(ErrCodeStore, "insert failed")
	assert.Equal(t, "[STORE_ERROR] insert failed", err.Error())
}

func TestDiagError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewError(ErrCodeStore, "insert failed").WithCause(cause)
	assert.ErrorIs(t, err, cause)
}

func TestDiagError_As(t *testing.T) {
	var wrapped error = NewErrorf(ErrCodeNotFound, "validation %s not found", "abc")

	var derr *DiagError
	require.True(t, errors.As(wrapped, &derr))
	assert.Equal(t, ErrCodeNotFound, derr.Code)
	assert.Contains(t, derr.Message, "abc")
}

func TestDiagError_WithDetails(t *testing.T) {
	err := NewError(ErrCodeRules, "bad rule").
		WithDetails(map[string]any{"rule": "no-style"})
	assert.Equal(t, "no-style", err.Details["rule"])
}
