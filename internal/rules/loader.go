package rules

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/venegas/diagcheck/pkg/schema"
)

// rulesSchemaJSON is the JSON Schema for the rules file. Embedded as a
// constant to avoid filesystem dependencies.
const rulesSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://diagcheck.dev/schemas/rules.json",
  "type": "object",
  "required": ["rules"],
  "properties": {
    "rules": {
      "type": "array",
      "items": { "$ref": "#/$defs/rule" }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "rule": {
      "type": "object",
      "required": ["name", "language", "expression", "message"],
      "properties": {
        "name": {
          "type": "string",
          "minLength": 1
        },
        "language": {
          "type": "string",
          "enum": ["expr", "cel", "jq"]
        },
        "expression": {
          "type": "string",
          "minLength": 1
        },
        "message": {
          "type": "string",
          "minLength": 1
        },
        "types": {
          "type": "array",
          "items": { "type": "string" }
        },
        "suggestions": {
          "type": "array",
          "items": { "type": "string" }
        }
      },
      "additionalProperties": false
    }
  }
}`

// Load reads a rules file, validates it against the rules JSON Schema
// and returns a ready Set.
func Load(path string, logger *slog.Logger) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeRules, "read rules file %s", path).WithCause(err)
	}
	return Parse(data, logger)
}

// Parse validates raw rules-file bytes and returns a ready Set.
func Parse(data []byte, logger *slog.Logger) (*Set, error) {
	if err := validateRulesDoc(data); err != nil {
		return nil, err
	}

	var file struct {
		Rules []Rule `json:"rules"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, schema.NewError(schema.ErrCodeRules, "decode rules file").WithCause(err)
	}

	return NewSet(file.Rules, logger)
}

// validateRulesDoc checks the raw document against the embedded schema.
func validateRulesDoc(data []byte) error {
	compiled, err := compileRulesSchema()
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return schema.NewError(schema.ErrCodeRules, "rules file is not valid JSON").WithCause(err)
	}

	if err := compiled.Validate(doc); err != nil {
		return toRulesError(err)
	}
	return nil
}

func compileRulesSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(rulesSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal rules schema: %w", err)
	}
	if err := c.AddResource("https://diagcheck.dev/schemas/rules.json", doc); err != nil {
		return nil, fmt.Errorf("add rules schema resource: %w", err)
	}

	compiled, err := c.Compile("https://diagcheck.dev/schemas/rules.json")
	if err != nil {
		return nil, fmt.Errorf("compile rules schema: %w", err)
	}
	return compiled, nil
}

// toRulesError converts a jsonschema.ValidationError into a DiagError
// with readable violation messages.
func toRulesError(err error) *schema.DiagError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeRules, err.Error())
	}

	violations := collectViolations(verr)
	if len(violations) == 0 {
		return schema.NewError(schema.ErrCodeRules, verr.Error())
	}

	if len(violations) == 1 {
		return schema.NewError(schema.ErrCodeRules, violations[0]).
			WithDetails(map[string]any{"violations": violations})
	}

	msg := fmt.Sprintf("rules file failed validation with %d errors", len(violations))
	return schema.NewError(schema.ErrCodeRules, msg).
		WithDetails(map[string]any{"violations": violations})
}

// collectViolations walks a ValidationError tree and collects leaf error
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
