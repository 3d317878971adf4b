package store

import (
	"time"

	"github.com/venegas/diagcheck/pkg/schema"
)

// Validation is one persisted verdict.
type Validation struct {
	ID          string             `json:"id"`
	RequestID   string             `json:"request_id,omitempty"`
	DiagramType schema.DiagramType `json:"diagram_type"`
	Valid       bool               `json:"valid"`
	Error       string             `json:"error,omitempty"`
	Line        int                `json:"line,omitempty"`
	NodeCount   int                `json:"node_count"`
	SourceBytes int                `json:"source_bytes"`
	DurationMs  int64              `json:"duration_ms"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Filter narrows ListValidations results.
type Filter struct {
	Valid       *bool
	DiagramType schema.DiagramType
	Since       *time.Time
	Limit       int
	Offset      int
}

// Stats summarizes the recorded history.
type Stats struct {
	Total   int64            `json:"total"`
	Passed  int64            `json:"passed"`
	Failed  int64            `json:"failed"`
	ByType  map[string]int64 `json:"by_type"`
	AvgMs   float64          `json:"avg_duration_ms"`
	Oldest  *time.Time       `json:"oldest,omitempty"`
	Newest  *time.Time       `json:"newest,omitempty"`
}
