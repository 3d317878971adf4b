package lint

import (
	"strings"

	"github.com/venegas/diagcheck/pkg/schema"
)

// delimiterPair describes one independently balanced delimiter kind.
type delimiterPair struct {
	open       string
	close      string
	name       string
	suggestion string
}

var delimiterPairs = []delimiterPair{
	{"[", "]", "square brackets", "Check that every [ has a matching ] on the same line"},
	{"(", ")", "parentheses", "Check that every ( has a matching ) on the same line"},
	{"{", "}", "curly braces", "Check that every { has a matching } on the same line"},
}

// BalanceBrackets verifies that square brackets, parentheses and curly
// braces are balanced within each content line, scanning top to bottom
// and stopping at the first violation. Balance is per line only: a
// bracket opened on one line and closed on the next counts as a
// violation on both lines, and callers depend on that; cross-line
// tracking would change accepted inputs.
func BalanceBrackets(lines []Line) *schema.Result {
	for _, line := range lines {
		if !line.Content() {
			continue
		}
		for _, pair := range delimiterPairs {
			opens := strings.Count(line.Trimmed, pair.open)
			closes := strings.Count(line.Trimmed, pair.close)
			if opens != closes {
				return schema.Fail("Unbalanced "+pair.name, line.Index, pair.suggestion)
			}
		}
	}
	return nil
}
