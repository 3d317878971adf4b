package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/venegas/diagcheck/internal/store"
	"github.com/venegas/diagcheck/pkg/schema"
)

// handleValidate checks a diagram document and returns the verdict.
func (s *DiagServer) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code is required"), nil
	}

	result := s.checker.Check(ctx, code)
	return marshalResult(result)
}

// handleHistory lists recorded verdicts.
func (s *DiagServer) handleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("history is disabled"), nil
	}

	filter := mcp.ParseStringMap(req, "filter", nil)

	sf := store.Filter{
		Limit:  extractInt(filter, "limit", 50),
		Offset: extractInt(filter, "offset", 0),
	}
	if typ, ok := filter["type"].(string); ok && typ != "" {
		sf.DiagramType = schema.DiagramType(typ)
	}
	if valid, ok := filter["valid"].(bool); ok {
		sf.Valid = &valid
	}

	validations, err := s.store.ListValidations(ctx, sf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history query failed: %v", err)), nil
	}
	return marshalResult(map[string]any{"validations": validations})
}

// handleStats returns aggregate validation statistics.
func (s *DiagServer) handleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("history is disabled"), nil
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats query failed: %v", err)), nil
	}
	return marshalResult(stats)
}

// extractInt safely extracts an integer from a filter map.
func extractInt(filter map[string]any, key string, defaultVal int) int {
	if filter == nil {
		return defaultVal
	}
	v, ok := filter[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// marshalResult converts a value to a JSON text tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
