// Package file provides a WorkflowStore over a directory of YAML
// files, one workflow per file. It is the offline backend used by the
// CLI.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/latticehq/lattice/pkg/domain"
)

// Store implements ports.WorkflowStore on the filesystem.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workflow dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) (string, error) {
	// Workflow IDs become file names; refuse anything that could
	// escape the store directory.
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid workflow id %q", id)
	}
	return filepath.Join(s.dir, id+".yaml"), nil
}

// Save writes the workflow as YAML.
func (s *Store) Save(ctx context.Context, w *domain.Workflow) error {
	path, err := s.path(w.ID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal workflow %s: %w", w.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write workflow %s: %w", w.ID, err)
	}
	return nil
}

// Load reads and decodes a workflow file.
func (s *Store) Load(ctx context.Context, id string) (*domain.Workflow, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, domain.ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read workflow %s: %w", id, err)
	}
	var w domain.Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode workflow %s: %w", id, err)
	}
	return &w, nil
}

// Delete removes the workflow file. Missing files are quiet.
func (s *Store) Delete(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete workflow %s: %w", id, err)
	}
	return nil
}

// List returns the IDs of all workflow files in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}
