package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/venegas/diagcheck/internal/logging"
	"github.com/venegas/diagcheck/internal/store"
	"github.com/venegas/diagcheck/internal/streaming"
	"github.com/venegas/diagcheck/pkg/schema"
)

// maxBodyBytes caps the accepted document size at 1 MiB.
const maxBodyBytes = 1 << 20

// validResponse is the success shape consumed by automation pipelines.
type validResponse struct {
	Valid       bool      `json:"valid"`
	Message     string    `json:"message"`
	DiagramType string    `json:"diagramType"`
	NodeCount   int       `json:"nodeCount"`
	Timestamp   time.Time `json:"timestamp"`
}

// invalidResponse is the failure shape.
type invalidResponse struct {
	Valid       bool     `json:"valid"`
	Error       string   `json:"error"`
	Line        int      `json:"line,omitempty"`
	Suggestions []string `json:"suggestions"`
}

// handleValidate checks one diagram document and returns its verdict.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}
	if len(body) > maxBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("document exceeds %d bytes", maxBodyBytes))
		return
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(body)))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if err := s.requestSchema.Validate(doc); err != nil {
		writeError(w, http.StatusBadRequest, "code is required and must be a string")
		return
	}
	code := doc.(map[string]any)["code"].(string)

	start := time.Now()
	result := s.deps.Checker.Check(ctx, code)
	elapsed := time.Since(start)

	ctx = logging.WithDiagramType(ctx, string(result.DiagramType))
	s.record(ctx, result, len(code), elapsed)
	s.publish(ctx, result)

	if result.Valid {
		logging.LogWith(ctx, s.deps.Logger).InfoContext(ctx, "diagram valid",
			"node_count", result.NodeCount, "duration_ms", elapsed.Milliseconds())
		writeJSON(w, http.StatusOK, validResponse{
			Valid:       true,
			Message:     "Diagram syntax is valid",
			DiagramType: string(result.DiagramType),
			NodeCount:   result.NodeCount,
			Timestamp:   time.Now().UTC(),
		})
		return
	}

	logging.LogWith(ctx, s.deps.Logger).InfoContext(ctx, "diagram invalid",
		"error", result.Error, "line", result.Line)
	writeJSON(w, http.StatusBadRequest, invalidResponse{
		Valid:       false,
		Error:       result.Error,
		Line:        result.Line,
		Suggestions: result.Suggestions,
	})
}

// record persists the verdict when history is enabled. Store failures
// are logged, never surfaced: recording must not affect the verdict.
func (s *Server) record(ctx context.Context, result *schema.Result, sourceBytes int, elapsed time.Duration) {
	if s.deps.Store == nil {
		return
	}
	v := &store.Validation{
		ID:          uuid.New().String(),
		RequestID:   logging.RequestID(ctx),
		DiagramType: result.DiagramType,
		Valid:       result.Valid,
		Error:       result.Error,
		Line:        result.Line,
		NodeCount:   result.NodeCount,
		SourceBytes: sourceBytes,
		DurationMs:  elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.deps.Store.AddValidation(ctx, v); err != nil {
		logging.LogWith(ctx, s.deps.Logger).ErrorContext(ctx, "record validation", "error", err)
	}
}

// publish emits a verdict event for SSE subscribers.
func (s *Server) publish(ctx context.Context, result *schema.Result) {
	if s.deps.Hub == nil {
		return
	}
	eventType := streaming.EventValidationPassed
	if !result.Valid {
		eventType = streaming.EventValidationFailed
	}
	event := streaming.VerdictEvent{
		RequestID:   logging.RequestID(ctx),
		DiagramType: string(result.DiagramType),
		EventType:   eventType,
		Payload:     result,
	}
	if err := s.deps.Hub.Publish(ctx, event); err != nil {
		logging.LogWith(ctx, s.deps.Logger).WarnContext(ctx, "publish verdict event", "error", err)
	}
}

// handleListValidations returns recorded verdicts, newest first.
func (s *Server) handleListValidations(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	filter := store.Filter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if v := r.URL.Query().Get("valid"); v != "" {
		b := v == "true" || v == "1"
		filter.Valid = &b
	}
	if t := r.URL.Query().Get("type"); t != "" {
		filter.DiagramType = schema.DiagramType(t)
	}

	validations, err := s.deps.Store.ListValidations(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("list validations: %v", err))
		return
	}
	if validations == nil {
		validations = []*store.Validation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"validations": validations})
}

// handleGetValidation returns one recorded verdict by ID.
func (s *Server) handleGetValidation(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	v, err := s.deps.Store.GetValidation(r.Context(), r.PathValue("id"))
	if err != nil {
		var derr *schema.DiagError
		if errors.As(err, &derr) && derr.Code == schema.ErrCodeNotFound {
			writeError(w, http.StatusNotFound, derr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("get validation: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleStats returns aggregate history statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	stats, err := s.deps.Store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("stats: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
