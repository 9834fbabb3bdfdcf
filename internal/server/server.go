// Package server exposes the shared task store over a local HTTP API so UI
// processes can read and mutate tasks without linking the library. Events
// from the notification bus are re-broadcast over SSE; like the bus itself,
// delivery is best-effort and clients are expected to re-fetch the task list
// as the source of truth.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/errandhq/errandsync/internal/bus"
	"github.com/errandhq/errandsync/store"
)

type Server struct {
	tasks  *store.TaskStore
	bus    *bus.Bus
	port   int
	server *http.Server
}

func New(port int, tasks *store.TaskStore, b *bus.Bus) *Server {
	s := &Server{
		tasks: tasks,
		bus:   b,
		port:  port,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handlePostTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("POST /api/tasks/{id}/status", s.handleSetStatus)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: corsMiddleware(mux),
	}

	return s
}

// Handler returns the root handler, for tests driving the API in-process.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
