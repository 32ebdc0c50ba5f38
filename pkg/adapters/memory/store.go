// Package memory provides an in-memory WorkflowStore, used for tests
// and embedded scenarios.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/latticehq/lattice/pkg/domain"
)

// Store implements ports.WorkflowStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]*domain.Workflow
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]*domain.Workflow)}
}

// Save persists a deep copy of the workflow, so later caller mutations
// never leak into the store.
func (s *Store) Save(ctx context.Context, w *domain.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[w.ID] = w.Clone()
	return nil
}

// Load retrieves a copy of the workflow.
func (s *Store) Load(ctx context.Context, id string) (*domain.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.data[id]
	if !ok {
		return nil, domain.ErrWorkflowNotFound
	}
	return w.Clone(), nil
}

// Delete removes the workflow.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored workflow IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
