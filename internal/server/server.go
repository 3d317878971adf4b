package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/venegas/diagcheck/internal/lint"
	"github.com/venegas/diagcheck/internal/store"
	"github.com/venegas/diagcheck/internal/streaming"
)

// requestSchemaJSON is the JSON Schema for the validate request body.
// The boundary rejects absent or non-string input here, before the
// checker runs.
const requestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://diagcheck.dev/schemas/validate-request.json",
  "type": "object",
  "required": ["code"],
  "properties": {
    "code": { "type": "string" }
  },
  "additionalProperties": false
}`

// Deps holds the dependencies for the API server.
type Deps struct {
	Checker *lint.Checker
	Store   store.Store // nil disables history recording and endpoints
	Hub     streaming.EventHub
	Logger  *slog.Logger
}

// Server serves the validation API consumed by automation pipelines.
type Server struct {
	deps          Deps
	requestSchema *jsonschema.Schema
}

// New creates a Server with the request schema pre-compiled.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	c := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(requestSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal request schema: %w", err)
	}
	if err := c.AddResource("https://diagcheck.dev/schemas/validate-request.json", doc); err != nil {
		return nil, fmt.Errorf("add request schema resource: %w", err)
	}
	compiled, err := c.Compile("https://diagcheck.dev/schemas/validate-request.json")
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}

	return &Server{deps: deps, requestSchema: compiled}, nil
}

// Handler returns the HTTP handler for the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("GET /api/validations", s.handleListValidations)
	mux.HandleFunc("GET /api/validations/{id}", s.handleGetValidation)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /sse/events", s.handleSSE)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return withRecover(withRequestID(withCORS(mux)), s.deps.Logger)
}
