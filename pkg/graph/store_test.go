package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/graph"
)

func newStore(t *testing.T) *graph.Store {
	t.Helper()
	return graph.New("wf-1", "Test Workflow")
}

func addPair(t *testing.T, s *graph.Store) {
	t.Helper()
	require.NoError(t, s.AddNode(domain.Node{ID: "n1", Type: domain.NodeTypeTrigger}))
	require.NoError(t, s.AddNode(domain.Node{ID: "n2", Type: domain.NodeTypeMessage}))
	require.NoError(t, s.AddEdge(domain.Edge{ID: "e1", Source: "n1", Target: "n2"}))
}

func TestStore_AddNode_RejectsDuplicate(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddNode(domain.Node{ID: "n1", Type: domain.NodeTypeTrigger}))

	err := s.AddNode(domain.Node{ID: "n1", Type: domain.NodeTypeMessage})
	assert.ErrorIs(t, err, domain.ErrDuplicateNode)

	// The original node is untouched.
	n, ok := s.Node("n1")
	require.True(t, ok)
	assert.Equal(t, domain.NodeTypeTrigger, n.Type)
}

func TestStore_AddNode_RejectsEmptyID(t *testing.T) {
	s := newStore(t)
	err := s.AddNode(domain.Node{Type: domain.NodeTypeTrigger})
	assert.ErrorIs(t, err, domain.ErrInvalidData)
}

func TestStore_AddEdge_RequiresEndpoints(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddNode(domain.Node{ID: "n1", Type: domain.NodeTypeTrigger}))

	err := s.AddEdge(domain.Edge{ID: "e1", Source: "n1", Target: "ghost"})
	assert.ErrorIs(t, err, domain.ErrDanglingEdge)
	assert.Empty(t, s.Edges())
}

func TestStore_AddEdge_RejectsDuplicate(t *testing.T) {
	s := newStore(t)
	addPair(t, s)

	err := s.AddEdge(domain.Edge{ID: "e1", Source: "n2", Target: "n1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEdge)
}

func TestStore_DeleteNode_CascadesEdges(t *testing.T) {
	s := newStore(t)
	addPair(t, s)

	var diffs []domain.GraphDiff
	s2, err := graph.FromWorkflow(s.Snapshot(), graph.WithHook(func(d domain.GraphDiff) {
		diffs = append(diffs, d)
	}))
	require.NoError(t, err)
	diffs = nil // drop the replayed add operations

	require.NoError(t, s2.DeleteNode("n1"))

	assert.Empty(t, s2.Edges())
	_, ok := s2.Node("n1")
	assert.False(t, ok)

	require.Len(t, diffs, 1)
	assert.Equal(t, domain.OpDeleteNode, diffs[0].Op)
	assert.Equal(t, []string{"e1"}, diffs[0].RemovedEdges)
	assert.Equal(t, "wf-1", diffs[0].WorkflowID)
}

func TestStore_DeleteNode_ClearsSelection(t *testing.T) {
	s := newStore(t)
	addPair(t, s)
	require.NoError(t, s.Select("n2"))

	require.NoError(t, s.DeleteNode("n2"))

	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestStore_DeleteNode_Missing(t *testing.T) {
	s := newStore(t)
	err := s.DeleteNode("ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestStore_UpdateNode_MergesPartialData(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddNode(domain.Node{
		ID:   "c1",
		Type: domain.NodeTypeCondition,
		Data: domain.ConditionData{Field: "plan", Operator: domain.OperatorEquals, Value: "trial"},
	}))

	require.NoError(t, s.UpdateNode("c1", map[string]any{"value": "paid"}))

	n, ok := s.Node("c1")
	require.True(t, ok)
	cond := n.Data.(domain.ConditionData)
	assert.Equal(t, domain.OperatorEquals, cond.Operator)
	assert.Equal(t, "paid", cond.Value)
}

func TestStore_UpdateNode_MissingIsNoOp(t *testing.T) {
	s := newStore(t)
	addPair(t, s)
	before := s.Snapshot()

	err := s.UpdateNode("ghost", map[string]any{"content": "hi"})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_UpdateNode_InvalidPayloadLeavesNodeUntouched(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddNode(domain.Node{
		ID:   "d1",
		Type: domain.NodeTypeDelay,
		Data: domain.DelayData{Duration: 30},
	}))

	err := s.UpdateNode("d1", map[string]any{"duration": -1})
	assert.ErrorIs(t, err, domain.ErrInvalidData)

	n, _ := s.Node("d1")
	assert.Equal(t, domain.DelayData{Duration: 30}, n.Data)
}

func TestStore_MoveNode(t *testing.T) {
	s := newStore(t)
	addPair(t, s)

	require.NoError(t, s.MoveNode("n1", domain.Position{X: 100, Y: 50}))

	n, _ := s.Node("n1")
	assert.Equal(t, domain.Position{X: 100, Y: 50}, n.Position)
}

func TestStore_Select_RequiresExistingNode(t *testing.T) {
	s := newStore(t)
	err := s.Select("ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddNode(domain.Node{
		ID:   "m1",
		Type: domain.NodeTypeMessage,
		Data: domain.MessageData{Content: "Hi", Buttons: []domain.Button{{ID: "a", Text: "A"}}},
	}))

	n, _ := s.Node("m1")
	n.Data.(domain.MessageData).Buttons[0].Text = "mutated"

	again, _ := s.Node("m1")
	assert.Equal(t, "A", again.Data.(domain.MessageData).Buttons[0].Text)
}

func TestStore_SetPositions_RejectsUnknownIDBeforeApplying(t *testing.T) {
	s := newStore(t)
	addPair(t, s)

	err := s.SetPositions(map[string]domain.Position{
		"n1":    {X: 1, Y: 1},
		"ghost": {X: 2, Y: 2},
	})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	n, _ := s.Node("n1")
	assert.Equal(t, domain.Position{}, n.Position)
}

func TestStore_Snapshot_PreservesInsertionOrder(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.AddNode(domain.Node{ID: id, Type: domain.NodeTypeAction}))
	}

	w := s.Snapshot()
	got := make([]string, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		got = append(got, n.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
	assert.Equal(t, "wf-1", w.ID)
	assert.Equal(t, "Test Workflow", w.Name)
}

func TestFromWorkflow_RejectsDanglingEdge(t *testing.T) {
	w := &domain.Workflow{
		ID:    "bad",
		Nodes: []domain.Node{{ID: "n1", Type: domain.NodeTypeTrigger}},
		Edges: []domain.Edge{{ID: "e1", Source: "n1", Target: "missing"}},
	}

	_, err := graph.FromWorkflow(w)
	assert.ErrorIs(t, err, domain.ErrDanglingEdge)
}

func TestStore_Hooks_ObserveMutations(t *testing.T) {
	var ops []string
	s := graph.New("wf-1", "t", graph.WithHook(func(d domain.GraphDiff) {
		ops = append(ops, d.Op)
	}))

	require.NoError(t, s.AddNode(domain.Node{ID: "n1", Type: domain.NodeTypeTrigger}))
	require.NoError(t, s.Select("n1"))
	s.Deselect()

	assert.Equal(t, []string{domain.OpAddNode, domain.OpSelect, domain.OpSelect}, ops)
}
