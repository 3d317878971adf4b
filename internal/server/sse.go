package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/venegas/diagcheck/internal/streaming"
)

// handleSSE streams verdict events to the client via Server-Sent Events.
// Optional query params: type (diagram type), event (repeatable event
// type filter).
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if s.deps.Hub == nil {
		http.Error(w, "event streaming disabled", http.StatusServiceUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	filter := streaming.EventFilter{
		DiagramType: r.URL.Query().Get("type"),
		EventTypes:  r.URL.Query()["event"],
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch, cancel, err := s.deps.Hub.Subscribe(r.Context(), filter)
	if err != nil {
		s.deps.Logger.Error("SSE subscribe failed", "error", err)
		http.Error(w, "subscribe failed", http.StatusInternalServerError)
		return
	}
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.EventType, data)
			flusher.Flush()
		}
	}
}
