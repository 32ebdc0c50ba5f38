// Package graph implements the in-memory graph state store behind the
// workflow editor: the authoritative set of nodes, edges and the
// current selection, with referential integrity enforced on every
// mutation.
package graph

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/latticehq/lattice/internal/logging"
	"github.com/latticehq/lattice/pkg/domain"
)

// Hook observes committed mutations. Hooks run synchronously inside the
// mutation, after state has changed and before the call returns.
type Hook func(domain.GraphDiff)

// Store holds the live editing state of one workflow. Mutations are
// atomic per call; readers receive copies, never aliases into the
// store. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	workflowID string
	name       string

	nodes     map[string]domain.Node
	nodeOrder []string
	edges     map[string]domain.Edge
	edgeOrder []string

	// selected is the single optional selection; empty means none.
	selected string

	hooks  []Hook
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a structured logger for mutation tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithHook registers a mutation observer.
func WithHook(h Hook) Option {
	return func(s *Store) { s.hooks = append(s.hooks, h) }
}

// New creates an empty store for the given workflow identity.
func New(workflowID, name string, opts ...Option) *Store {
	s := &Store{
		workflowID: workflowID,
		name:       name,
		nodes:      make(map[string]domain.Node),
		edges:      make(map[string]domain.Edge),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromWorkflow builds a store from a persisted workflow, validating
// node uniqueness and edge integrity on the way in.
func FromWorkflow(w *domain.Workflow, opts ...Option) (*Store, error) {
	s := New(w.ID, w.Name, opts...)
	for _, n := range w.Nodes {
		if err := s.AddNode(n); err != nil {
			return nil, fmt.Errorf("load workflow %s: %w", w.ID, err)
		}
	}
	for _, e := range w.Edges {
		if err := s.AddEdge(e); err != nil {
			return nil, fmt.Errorf("load workflow %s: %w", w.ID, err)
		}
	}
	return s, nil
}

// AddNode inserts a node. The ID is caller-supplied and must be unique;
// a duplicate is rejected with ErrDuplicateNode, never overwritten.
func (s *Store) AddNode(n domain.Node) error {
	if n.ID == "" {
		return fmt.Errorf("%w: empty node id", domain.ErrInvalidData)
	}
	s.mu.Lock()
	if _, ok := s.nodes[n.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrDuplicateNode, n.ID)
	}
	s.nodes[n.ID] = n.Clone()
	s.nodeOrder = append(s.nodeOrder, n.ID)
	s.mu.Unlock()

	s.logger.Debug("node added", "node", n.ID, "type", n.Type)
	s.emit(domain.GraphDiff{Op: domain.OpAddNode, NodeID: n.ID})
	return nil
}

// UpdateNode merges a partial payload into the data of the addressed
// node. Type, position and every other node are untouched. An absent ID
// is a reported no-op: ErrNodeNotFound comes back, nothing changes.
func (s *Store) UpdateNode(id string, partial map[string]any) error {
	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	merged, err := domain.MergeData(n.Type, n.Data, partial)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	n.Data = merged
	s.nodes[id] = n
	s.mu.Unlock()

	s.logger.Debug("node updated", "node", id)
	s.emit(domain.GraphDiff{Op: domain.OpUpdateNode, NodeID: id})
	return nil
}

// MoveNode sets the canvas position of a node.
func (s *Store) MoveNode(id string, pos domain.Position) error {
	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	n.Position = pos
	s.nodes[id] = n
	s.mu.Unlock()

	s.emit(domain.GraphDiff{
		Op:        domain.OpMoveNode,
		NodeID:    id,
		Positions: map[string]domain.Position{id: pos},
	})
	return nil
}

// DeleteNode removes a node and cascades: every edge touching it as
// source or target is removed in the same mutation, so no dangling
// edge is ever observable. Clears the selection if it pointed here.
func (s *Store) DeleteNode(id string) error {
	s.mu.Lock()
	if _, ok := s.nodes[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	delete(s.nodes, id)
	s.nodeOrder = remove(s.nodeOrder, id)

	var removed []string
	for _, eid := range s.edgeOrder {
		if s.edges[eid].Touches(id) {
			delete(s.edges, eid)
			removed = append(removed, eid)
		}
	}
	for _, eid := range removed {
		s.edgeOrder = remove(s.edgeOrder, eid)
	}

	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()

	s.logger.Debug("node deleted", "node", id, "cascaded_edges", len(removed))
	s.emit(domain.GraphDiff{Op: domain.OpDeleteNode, NodeID: id, RemovedEdges: removed})
	return nil
}

// AddEdge inserts an edge. Both endpoints must exist; a dangling
// endpoint is rejected at this boundary with ErrDanglingEdge.
func (s *Store) AddEdge(e domain.Edge) error {
	if e.ID == "" {
		return fmt.Errorf("%w: empty edge id", domain.ErrInvalidData)
	}
	s.mu.Lock()
	if _, ok := s.edges[e.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEdge, e.ID)
	}
	if _, ok := s.nodes[e.Source]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: source %s", domain.ErrDanglingEdge, e.Source)
	}
	if _, ok := s.nodes[e.Target]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: target %s", domain.ErrDanglingEdge, e.Target)
	}
	s.edges[e.ID] = e
	s.edgeOrder = append(s.edgeOrder, e.ID)
	s.mu.Unlock()

	s.logger.Debug("edge added", "edge", e.ID, "source", e.Source, "target", e.Target)
	s.emit(domain.GraphDiff{Op: domain.OpAddEdge, EdgeID: e.ID})
	return nil
}

// DeleteEdge removes an edge by ID.
func (s *Store) DeleteEdge(id string) error {
	s.mu.Lock()
	if _, ok := s.edges[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrEdgeNotFound, id)
	}
	delete(s.edges, id)
	s.edgeOrder = remove(s.edgeOrder, id)
	s.mu.Unlock()

	s.emit(domain.GraphDiff{Op: domain.OpDeleteEdge, EdgeID: id})
	return nil
}

// Select marks a node as the current selection. The ID must reference
// an existing node.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	if _, ok := s.nodes[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	s.selected = id
	s.mu.Unlock()

	s.emit(domain.GraphDiff{Op: domain.OpSelect, NodeID: id})
	return nil
}

// Deselect clears the selection.
func (s *Store) Deselect() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()

	s.emit(domain.GraphDiff{Op: domain.OpSelect})
}

// Selected returns a copy of the currently selected node, if any.
func (s *Store) Selected() (domain.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return domain.Node{}, false
	}
	return s.nodes[s.selected].Clone(), true
}

// Node returns a copy of the node with the given ID.
func (s *Store) Node(id string) (domain.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return domain.Node{}, false
	}
	return n.Clone(), true
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []domain.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		out = append(out, s.edges[id])
	}
	return out
}

// SetPositions applies recomputed coordinates, typically the output of
// an auto-layout pass. Unknown IDs are rejected before anything moves.
func (s *Store) SetPositions(positions map[string]domain.Position) error {
	s.mu.Lock()
	for id := range positions {
		if _, ok := s.nodes[id]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
		}
	}
	applied := make(map[string]domain.Position, len(positions))
	for id, pos := range positions {
		n := s.nodes[id]
		n.Position = pos
		s.nodes[id] = n
		applied[id] = pos
	}
	s.mu.Unlock()

	s.emit(domain.GraphDiff{Op: domain.OpLayout, Positions: applied})
	return nil
}

// Snapshot captures the current graph as a workflow for persistence.
func (s *Store) Snapshot() *domain.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := &domain.Workflow{
		ID:    s.workflowID,
		Name:  s.name,
		Nodes: make([]domain.Node, 0, len(s.nodeOrder)),
		Edges: make([]domain.Edge, 0, len(s.edgeOrder)),
	}
	for _, id := range s.nodeOrder {
		w.Nodes = append(w.Nodes, s.nodes[id].Clone())
	}
	for _, id := range s.edgeOrder {
		w.Edges = append(w.Edges, s.edges[id])
	}
	return w
}

func (s *Store) emit(diff domain.GraphDiff) {
	diff.WorkflowID = s.workflowID
	for _, h := range s.hooks {
		h(diff)
	}
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
