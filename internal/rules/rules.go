package rules

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/venegas/diagcheck/internal/lint"
	"github.com/venegas/diagcheck/pkg/schema"
)

// Rule is one operator-defined per-line check. Its expression is
// evaluated against every content line of a document that passed the
// built-in checks; a true result fails the document at that line.
type Rule struct {
	Name        string   `json:"name"`
	Language    string   `json:"language"` // expr | cel | jq
	Expression  string   `json:"expression"`
	Message     string   `json:"message"`
	Types       []string `json:"types,omitempty"` // diagram types the rule applies to; empty = all
	Suggestions []string `json:"suggestions,omitempty"`
}

// appliesTo reports whether the rule covers the given diagram type.
func (r Rule) appliesTo(typ schema.DiagramType) bool {
	if len(r.Types) == 0 {
		return true
	}
	for _, t := range r.Types {
		if t == string(typ) {
			return true
		}
	}
	return false
}

// Set holds compiled-on-demand rules and the engines that evaluate them.
// Safe for concurrent use.
type Set struct {
	rules   []Rule
	engines map[string]Engine
	logger  *slog.Logger
}

// NewSet creates a Set from already-validated rules. Engines are built
// once and shared; CEL environment construction can fail.
func NewSet(ruleList []Rule, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	celEngine, err := NewCELEngine()
	if err != nil {
		return nil, err
	}
	engines := map[string]Engine{
		"expr": NewExprEngine(),
		"cel":  celEngine,
		"jq":   NewGoJQEngine(),
	}

	for _, r := range ruleList {
		if _, ok := engines[r.Language]; !ok {
			return nil, schema.NewErrorf(schema.ErrCodeRules,
				"rule %q: unsupported language %q", r.Name, r.Language)
		}
	}

	return &Set{rules: ruleList, engines: engines, logger: logger}, nil
}

// Len returns the number of rules in the set.
func (s *Set) Len() int {
	return len(s.rules)
}

// Apply evaluates every rule against every content line, top to bottom,
// and returns the first violation as an invalid result, or nil when all
// rules pass.
//
// Rules fail open: an expression that errors at evaluation time is
// logged and skipped, so a broken operator rule can never turn a valid
// document invalid.
func (s *Set) Apply(ctx context.Context, typ schema.DiagramType, lines []lint.Line) *schema.Result {
	if len(s.rules) == 0 {
		return nil
	}

	for _, line := range lines {
		if !line.Content() {
			continue
		}
		env := map[string]any{
			envLine:    line.Index,
			envText:    line.Trimmed,
			envRaw:     line.Raw,
			envBlank:   line.Blank,
			envComment: line.Comment,
			envType:    string(typ),
		}
		for _, rule := range s.rules {
			if !rule.appliesTo(typ) {
				continue
			}
			out, err := s.engines[rule.Language].Evaluate(ctx, rule.Expression, env)
			if err != nil {
				s.logger.WarnContext(ctx, "custom rule skipped",
					slog.String("rule", rule.Name),
					slog.String("error", err.Error()))
				continue
			}
			if violated, ok := out.(bool); ok && violated {
				return schema.Fail(s.ruleMessage(rule), line.Index, rule.Suggestions...)
			}
		}
	}
	return nil
}

func (s *Set) ruleMessage(rule Rule) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fmt.Sprintf("Custom rule %q failed", rule.Name)
}
