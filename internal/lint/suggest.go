package lint

import "strings"

// suggestionRules map message keywords to canned remediation hints.
var suggestionRules = []struct {
	keyword    string
	suggestion string
}{
	{"Parse error", "Check the line for typos in node identifiers and arrow tokens"},
	{"Lexical error", "Remove or escape unsupported characters"},
	{"subgraph", `Every "subgraph" must be closed with a matching "end"`},
}

const genericSuggestion = "Review the diagram syntax documentation at https://mermaid.js.org/intro/syntax-reference.html"

// SuggestionsFor derives remediation suggestions from an error message by
// keyword matching. It is the fallback for failures that did not attach
// their own suggestions at the point of detection; when no keyword
// matches it returns a single generic pointer at the syntax docs.
func SuggestionsFor(message string) []string {
	var out []string
	for _, rule := range suggestionRules {
		if strings.Contains(message, rule.keyword) {
			out = append(out, rule.suggestion)
		}
	}
	if len(out) == 0 {
		out = []string{genericSuggestion}
	}
	return out
}
