package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/errandhq/errandsync/internal/bus"
	"github.com/errandhq/errandsync/internal/normalize"
	"github.com/errandhq/errandsync/models"
	"github.com/errandhq/errandsync/store"
)

func writeAPIJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// handleListTasks returns the runner-visible feed.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ScanVisible()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeAPIJSON(w, tasks)
}

// handleGetTask performs a direct lookup, hidden states included.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	task, ok, err := s.tasks.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	writeAPIJSON(w, task)
}

// handlePostTask accepts a raw producer record, normalizes it, and publishes
// it to the shared store.
func (s *Server) handlePostTask(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read request body", http.StatusBadRequest)
		return
	}

	task, err := normalize.Normalize(body)
	if err != nil {
		if errors.Is(err, normalize.ErrMissingID) {
			http.Error(w, "task record has no id", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.tasks.Put(task); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeAPIJSON(w, task)
}

// handleSetStatus applies a lifecycle transition.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Status.Valid() {
		http.Error(w, fmt.Sprintf("unknown status %q", req.Status), http.StatusBadRequest)
		return
	}

	if err := s.tasks.SetStatus(id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeAPIJSON(w, map[string]string{"id": id, "status": string(req.Status)})
}

// changeEvent is the SSE payload mirroring the bus event shape.
type changeEvent struct {
	Key      string  `json:"key"`
	OldValue *string `json:"old_value"`
	NewValue *string `json:"new_value"`
}

// handleEvents streams bus events to the client. The stream is a hint
// channel only: events that arrive while the client's buffer is full are
// dropped, never queued.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := make(chan bus.Event, 16)
	unsubscribe := s.bus.SubscribeStorage(func(ev bus.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			payload := changeEvent{Key: ev.Key}
			if ev.OldValue != nil {
				old := string(ev.OldValue)
				payload.OldValue = &old
			}
			if ev.NewValue != nil {
				val := string(ev.NewValue)
				payload.NewValue = &val
			}
			data, err := json.Marshal(payload)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, map[string]string{"status": "ok"})
}
