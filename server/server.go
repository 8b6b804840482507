// Package server provides the mata server, which exposes an HTTP API for
// storing, querying, and exporting automata.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/mata/server/api"
	"github.com/dekarrin/mata/server/dao"
	"github.com/dekarrin/mata/server/middle"
	"github.com/go-chi/chi/v5"
)

// Server is a mata server. Create one with New and then call ListenAndServe
// (or use its Router directly, e.g. for tests).
type Server struct {
	cfg    Config
	db     dao.Store
	Router chi.Router
}

// New creates a new Server from the given Config, filling unset values with
// their defaults and connecting to the configured persistence layer. Callers
// should call Close on the returned Server once it is no longer needed.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}

	a := api.API{
		Store:           store.Automata(),
		OperatorKeyHash: cfg.OperatorKeyHash,
		Secret:          cfg.TokenSecret,
		UnauthDelay:     cfg.UnauthDelay(),
	}

	s := &Server{
		cfg: cfg,
		db:  store,
	}
	s.Router = s.routes(a)

	return s, nil
}

// routes builds the chi router that dispatches all mata server endpoints.
func (s *Server) routes(a api.API) chi.Router {
	r := chi.NewRouter()
	r.Use(middle.DontPanic())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Get("/info", a.HTTPGetInfo())
		r.Post("/login", a.HTTPCreateLogin())

		r.Get("/automata/{id}", a.HTTPGetAutomaton())
		r.Post("/automata/{id}/query", a.HTTPQueryAutomaton())

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(a.Secret, a.UnauthDelay))
			r.Post("/automata", a.HTTPCreateAutomaton())
			r.Delete("/automata/{id}", a.HTTPDeleteAutomaton())
		})
	})

	return r
}

// ListenAndServe starts the server listening on its configured address. It
// blocks until the passed-in context is cancelled or the server encounters a
// fatal error, and always closes the underlying DB connection before
// returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	defer s.db.Close()

	httpServer := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// Close releases the resources held by the Server, including its DB
// connection.
func (s *Server) Close() error {
	return s.db.Close()
}
