package lint

import (
	"context"
	"log/slog"
	"os"

	"github.com/venegas/diagcheck/pkg/schema"
)

// RuleApplier runs operator-defined rules against the document after the
// built-in checks pass. Satisfied by rules.Set (avoids import cycle).
type RuleApplier interface {
	Apply(ctx context.Context, typ schema.DiagramType, lines []Line) *schema.Result
}

// Checker runs the staged validation pipeline:
// 1. line splitting
// 2. type detection (first line)
// 3. per-line bracket balance
// 4. type-specific structural checks
// 5. custom rules (optional)
// The first violation short-circuits the remaining stages. Each call is
// an independent pure computation over the input string, so a single
// Checker is safe for any number of concurrent callers.
type Checker struct {
	rules  RuleApplier
	logger *slog.Logger
}

// New creates a Checker. rules may be nil to disable custom rules.
func New(rules RuleApplier, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &Checker{rules: rules, logger: logger}
}

// Check validates a diagram document and returns its verdict. Invalid
// results always carry at least one suggestion: failures that did not
// attach their own get keyword-derived ones.
func (c *Checker) Check(ctx context.Context, text string) *schema.Result {
	lines := SplitLines(text)

	typ := DetectType(lines)
	if typ == schema.TypeUnknown {
		return c.finish(unknownTypeResult(), typ)
	}

	if r := BalanceBrackets(lines); r != nil {
		return c.finish(r, typ)
	}

	switch typ {
	case schema.TypeFlowchart:
		if r := validateFlowchart(lines); r != nil {
			return c.finish(r, typ)
		}
	case schema.TypeSequence:
		if r := validateSequence(lines); r != nil {
			return c.finish(r, typ)
		}
	}

	if c.rules != nil {
		if r := c.rules.Apply(ctx, typ, lines); r != nil {
			return c.finish(r, typ)
		}
	}

	return schema.Ok(typ, CountNodes(text, lines))
}

// finish stamps the detected type on a failure and fills in fallback
// suggestions for failures that carry none.
func (c *Checker) finish(r *schema.Result, typ schema.DiagramType) *schema.Result {
	r.DiagramType = typ
	if len(r.Suggestions) == 0 {
		r.Suggestions = SuggestionsFor(r.Error)
	}
	return r
}
