package rules

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venegas/diagcheck/pkg/schema"
)

func TestNewExprEngine(t *testing.T) {
	e := NewExprEngine()
	assert.NotNil(t, e)
	assert.Equal(t, "expr", e.Name())
}

// --- Interface compliance ---

func TestExprEngine_ImplementsEngine(t *testing.T) {
	var _ Engine = (*ExprEngine)(nil)
}

// --- Basic evaluation ---

func TestExpr_BooleanLiteral(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), "true", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestExpr_LineEnvironment(t *testing.T) {
	e := NewExprEngine()

	data := map[string]any{
		envLine:    2,
		envText:    "A --> B",
		envRaw:     "  A --> B",
		envBlank:   false,
		envComment: false,
		envType:    "flowchart",
	}

	t.Run("string functions", func(t *testing.T) {
		out, err := e.Evaluate(context.Background(), `text contains "-->"`, data)
		require.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("line comparison", func(t *testing.T) {
		out, err := e.Evaluate(context.Background(), `line > 1 and not blank`, data)
		require.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("type check", func(t *testing.T) {
		out, err := e.Evaluate(context.Background(), `diagram_type == "flowchart"`, data)
		require.NoError(t, err)
		assert.Equal(t, true, out)
	})
}

func TestExpr_UndefinedVariablesAllowed(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), `something == nil`, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

// --- Error handling ---

func TestExpr_EmptyExpression(t *testing.T) {
	e := NewExprEngine()

	_, err := e.Evaluate(context.Background(), "", map[string]any{})
	require.Error(t, err)

	diagErr, ok := err.(*schema.DiagError)
	require.True(t, ok)
	assert.Equal(t, schema.ErrCodeRules, diagErr.Code)
}

func TestExpr_CompileError(t *testing.T) {
	e := NewExprEngine()

	_, err := e.Evaluate(context.Background(), `1 +`, map[string]any{})
	require.Error(t, err)

	diagErr, ok := err.(*schema.DiagError)
	require.True(t, ok)
	assert.Equal(t, schema.ErrCodeRules, diagErr.Code)
	assert.Contains(t, diagErr.Message, "compile")
	assert.Contains(t, diagErr.Details, "expression")
}

// --- Program caching ---

func TestExpr_ProgramCaching(t *testing.T) {
	e := NewExprEngine()

	data := map[string]any{envLine: 1}

	out1, err := e.Evaluate(context.Background(), `line + 1`, data)
	require.NoError(t, err)

	e.mu.RLock()
	cacheLen := len(e.cache)
	e.mu.RUnlock()
	assert.Equal(t, 1, cacheLen, "program should be cached")

	out2, err := e.Evaluate(context.Background(), `line + 1`, data)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

// --- Thread safety ---

func TestExpr_Concurrent(t *testing.T) {
	e := NewExprEngine()

	var wg sync.WaitGroup
	errs := make([]error, 100)
	results := make([]any, 100)

	for i := range 100 {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			data := map[string]any{envLine: idx + 1}
			results[idx], errs[idx] = e.Evaluate(context.Background(), `line >= 1`, data)
		}(i)
	}
	wg.Wait()

	for i := range 100 {
		assert.NoError(t, errs[i], "goroutine %d should not error", i)
		assert.Equal(t, true, results[i], "goroutine %d should return true", i)
	}
}
