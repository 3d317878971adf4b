package rules

import "context"

// Engine evaluates a rule expression against a per-line environment.
// Three implementations: Expr (logic), CEL (conditions), GoJQ (jq
// programs). All are safe for concurrent use.
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}

// Environment keys available to rule expressions.
const (
	envLine    = "line"
	envText    = "text"
	envRaw     = "raw"
	envBlank   = "blank"
	envComment = "comment"
	envType    = "diagram_type"
)
