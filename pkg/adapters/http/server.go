// Package http exposes the workflow edit core as a JSON REST API with
// per-workflow SSE change streams.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/latticehq/lattice/internal/logging"
	presentation "github.com/latticehq/lattice/internal/presentation/graph"
	"github.com/latticehq/lattice/internal/validator"
	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/graph"
	"github.com/latticehq/lattice/pkg/layout"
	"github.com/latticehq/lattice/pkg/observability"
	"github.com/latticehq/lattice/pkg/ports"
	"github.com/latticehq/lattice/pkg/registry"
)

// Server binds the edit operations to a WorkflowStore. Each request
// loads the workflow, applies the mutation through a graph store and
// saves the result, so the API is stateless across requests.
type Server struct {
	store    ports.WorkflowStore
	registry *registry.Registry
	layout   *layout.Engine
	streams  *StreamManager
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRegistry replaces the default node type registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// NewServer creates a server over the given store.
func NewServer(store ports.WorkflowStore, opts ...Option) *Server {
	s := &Server{
		store:   store,
		streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	if s.layout == nil {
		s.layout = layout.NewEngine()
	}
	return s
}

// Handler assembles the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/workflows", func(r chi.Router) {
		r.Get("/", s.listWorkflows)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.putWorkflow)
			r.Get("/", s.getWorkflow)
			r.Delete("/", s.deleteWorkflow)

			r.Post("/nodes", s.addNode)
			r.Patch("/nodes/{nodeID}", s.updateNode)
			r.Delete("/nodes/{nodeID}", s.deleteNode)

			r.Post("/edges", s.addEdge)
			r.Delete("/edges/{edgeID}", s.deleteEdge)

			r.Post("/layout", s.layoutWorkflow)
			r.Get("/export/mermaid", s.exportMermaid)
			r.Get("/events", s.subscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, err, "list workflows")
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) putWorkflow(w http.ResponseWriter, r *http.Request) {
	var wf domain.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		s.badRequest(w, err)
		return
	}
	wf.ID = chi.URLParam(r, "id")
	// Structural integrity only: reachability belongs to the validate
	// command, and the mutation endpoints build drafts incrementally.
	if err := validator.ValidateStructure(&wf); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errBody(err))
		return
	}
	if err := s.store.Save(r.Context(), &wf); err != nil {
		s.fail(w, err, "save workflow")
		return
	}
	writeJSON(w, http.StatusCreated, &wf)
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "load workflow")
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (s *Server) deleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err, "delete workflow")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var node domain.Node
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		s.badRequest(w, err)
		return
	}
	s.mutate(w, r, http.StatusCreated, func(g *graph.Store) error {
		return g.AddNode(node)
	})
}

func (s *Server) updateNode(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		s.badRequest(w, err)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	s.mutate(w, r, http.StatusOK, func(g *graph.Store) error {
		return g.UpdateNode(nodeID, partial)
	})
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	s.mutate(w, r, http.StatusOK, func(g *graph.Store) error {
		return g.DeleteNode(nodeID)
	})
}

func (s *Server) addEdge(w http.ResponseWriter, r *http.Request) {
	var edge domain.Edge
	if err := json.NewDecoder(r.Body).Decode(&edge); err != nil {
		s.badRequest(w, err)
		return
	}
	s.mutate(w, r, http.StatusCreated, func(g *graph.Store) error {
		return g.AddEdge(edge)
	})
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	edgeID := chi.URLParam(r, "edgeID")
	s.mutate(w, r, http.StatusOK, func(g *graph.Store) error {
		return g.DeleteEdge(edgeID)
	})
}

func (s *Server) layoutWorkflow(w http.ResponseWriter, r *http.Request) {
	dir, err := layout.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		s.badRequest(w, err)
		return
	}
	start := time.Now()
	s.mutate(w, r, http.StatusOK, func(g *graph.Store) error {
		nodes, err := s.layout.Layout(g.Nodes(), g.Edges(), dir)
		if err != nil {
			return err
		}
		positions := make(map[string]domain.Position, len(nodes))
		for _, n := range nodes {
			positions[n.ID] = n.Position
		}
		if err := g.SetPositions(positions); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.ObserveLayout(start)
		}
		return nil
	})
}

func (s *Server) exportMermaid(w http.ResponseWriter, r *http.Request) {
	wf, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "load workflow")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, presentation.GenerateMermaid(wf, s.registry))
}

// mutate runs one atomic edit cycle: load, apply, save, broadcast.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, okStatus int, fn func(*graph.Store) error) {
	id := chi.URLParam(r, "id")
	wf, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.fail(w, err, "load workflow")
		return
	}

	// Loading replays add operations through the store; the loaded flag
	// keeps those out of the broadcast and the metrics.
	loaded := false
	var diffs []domain.GraphDiff
	opts := []graph.Option{
		graph.WithLogger(s.logger),
		graph.WithHook(func(d domain.GraphDiff) {
			if loaded {
				diffs = append(diffs, d)
			}
		}),
	}
	if s.metrics != nil {
		hook := s.metrics.Hook()
		opts = append(opts, graph.WithHook(func(d domain.GraphDiff) {
			if loaded {
				hook(d)
			}
		}))
	}

	g, err := graph.FromWorkflow(wf, opts...)
	if err != nil {
		s.fail(w, err, "build graph")
		return
	}
	loaded = true

	if err := fn(g); err != nil {
		s.fail(w, err, "apply mutation")
		return
	}

	snapshot := g.Snapshot()
	if err := s.store.Save(r.Context(), snapshot); err != nil {
		s.fail(w, err, "save workflow")
		return
	}

	for _, d := range diffs {
		if payload, err := json.Marshal(d); err == nil {
			s.streams.Broadcast(id, string(payload))
		}
	}
	writeJSON(w, okStatus, snapshot)
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Warn("invalid request body", "error", err)
	writeJSON(w, http.StatusBadRequest, errBody(err))
}

// fail maps domain errors to HTTP statuses: missing things are 404,
// duplicates 409, integrity violations 422, the rest 500.
func (s *Server) fail(w http.ResponseWriter, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrWorkflowNotFound),
		errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrEdgeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateNode),
		errors.Is(err, domain.ErrDuplicateEdge):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrDanglingEdge),
		errors.Is(err, domain.ErrInvalidData):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(msg, "error", err)
	}
	writeJSON(w, status, errBody(err))
}

func errBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
