package ports

import (
	"context"

	"github.com/latticehq/lattice/pkg/domain"
)

// WorkflowStore persists workflows. This is the save/load collaborator
// of the edit core: the core has no opinion on transport or format
// beyond "nodes and edges round-trip intact".
type WorkflowStore interface {
	// Save persists the workflow under its ID, replacing any previous
	// version.
	Save(ctx context.Context, w *domain.Workflow) error

	// Load retrieves a workflow by ID.
	// Returns domain.ErrWorkflowNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Workflow, error)

	// Delete removes a workflow. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored workflow IDs in lexical order.
	List(ctx context.Context) ([]string, error)
}
