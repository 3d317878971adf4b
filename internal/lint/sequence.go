package lint

import (
	"regexp"
	"strings"

	"github.com/venegas/diagcheck/pkg/schema"
)

const participantKeyword = "participant"

var (
	// participantRe extracts the identifier following the participant
	// keyword. Declarations that don't match are silently ignored.
	participantRe = regexp.MustCompile(`^participant\s+(\w+)`)

	// messageArrowRe detects the presence of a message arrow. Longest
	// alternatives first so "-->>" is not read as "--" plus ">>".
	messageArrowRe = regexp.MustCompile(`-->>|->>|-->|->`)

	// messageLineRe is the full message grammar:
	// identifier, arrow, identifier, optional ": body".
	messageLineRe = regexp.MustCompile(`^\w+\s*(?:-->>|->>|-->|->)\s*\w+\s*(?::.*)?$`)
)

// validateSequence applies the sequence-diagram checks: participant
// collection and message-arrow grammar. Participants are gathered to
// support later declaration checks but are not themselves a source of
// failure; referencing an undeclared participant is accepted.
func validateSequence(lines []Line) *schema.Result {
	participants := make(map[string]struct{})
	for _, line := range lines {
		if !line.Content() {
			continue
		}
		if strings.HasPrefix(line.Trimmed, participantKeyword) {
			if m := participantRe.FindStringSubmatch(line.Trimmed); m != nil {
				participants[m[1]] = struct{}{}
			}
		}
		if messageArrowRe.MatchString(line.Trimmed) && !messageLineRe.MatchString(line.Trimmed) {
			return schema.Fail("Invalid message syntax", line.Index,
				"Messages take the form Actor1->>Actor2: Message")
		}
	}
	return nil
}
