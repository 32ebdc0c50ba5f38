package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehq/lattice/pkg/domain"
)

// RunWorkflowStoreContract verifies that a store implementation honors
// the WorkflowStore semantics. Every adapter test suite runs it.
func RunWorkflowStoreContract(t *testing.T, store WorkflowStore) {
	t.Helper()
	ctx := context.Background()

	wf := &domain.Workflow{
		ID:   "contract-wf",
		Name: "Contract",
		Nodes: []domain.Node{
			{ID: "n1", Type: domain.NodeTypeMessage, Position: domain.Position{X: 10, Y: 20},
				Data: domain.MessageData{Content: "hi", Buttons: []domain.Button{{ID: "b1", Text: "Go"}}}},
			{ID: "n2", Type: domain.NodeTypeCondition,
				Data: domain.ConditionData{Field: "x", Operator: domain.OperatorEquals, Value: "1"}},
			{ID: "n3", Type: domain.NodeTypeDelay, Data: domain.DelayData{Duration: 30}},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "n1", Target: "n2"},
			{ID: "e2", Source: "n2", Target: "n3"},
		},
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, wf))

		got, err := store.Load(ctx, wf.ID)
		require.NoError(t, err)
		assert.Equal(t, wf.ID, got.ID)
		assert.Equal(t, wf.Name, got.Name)
		assert.Equal(t, wf.Nodes, got.Nodes)
		assert.Equal(t, wf.Edges, got.Edges)
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-workflow")
		assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		updated := wf.Clone()
		updated.Name = "Renamed"
		updated.Edges = updated.Edges[:1]
		require.NoError(t, store.Save(ctx, updated))

		got, err := store.Load(ctx, wf.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Len(t, got.Edges, 1)
	})

	t.Run("List", func(t *testing.T) {
		other := &domain.Workflow{ID: "another-wf", Nodes: []domain.Node{}, Edges: []domain.Edge{}}
		require.NoError(t, store.Save(ctx, other))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, wf.ID)
		assert.Contains(t, ids, other.ID)
		assert.IsIncreasing(t, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, wf.ID))
		_, err := store.Load(ctx, wf.ID)
		assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)

		// Deleting a missing workflow is quiet.
		assert.NoError(t, store.Delete(ctx, wf.ID))
	})
}
