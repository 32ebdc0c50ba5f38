package dsl

import (
	"fmt"

	"github.com/latticehq/lattice/pkg/domain"
)

// Builder accumulates nodes and edges for a workflow. Errors are
// collected and reported once from Build, keeping call chains clean.
type Builder struct {
	workflow domain.Workflow
	nodeIDs  map[string]bool
	errs     []error
	edgeSeq  int
}

// New creates a builder for a workflow with the given identity.
func New(id, name string) *Builder {
	return &Builder{
		workflow: domain.Workflow{ID: id, Name: name, Nodes: []domain.Node{}, Edges: []domain.Edge{}},
		nodeIDs:  make(map[string]bool),
	}
}

// Node adds a node with the given ID and spec.
func (b *Builder) Node(id string, spec NodeSpec) *Builder {
	if b.nodeIDs[id] {
		b.errs = append(b.errs, fmt.Errorf("%w: %s", domain.ErrDuplicateNode, id))
		return b
	}
	b.nodeIDs[id] = true
	b.workflow.Nodes = append(b.workflow.Nodes, domain.Node{
		ID:   id,
		Type: spec.Type,
		Data: spec.Data,
	})
	return b
}

// At sets the position of the most recently added node.
func (b *Builder) At(x, y float64) *Builder {
	if len(b.workflow.Nodes) == 0 {
		b.errs = append(b.errs, fmt.Errorf("At called before any node"))
		return b
	}
	b.workflow.Nodes[len(b.workflow.Nodes)-1].Position = domain.Position{X: x, Y: y}
	return b
}

// Connect adds an edge between two previously added nodes. The edge ID
// is derived from the endpoints.
func (b *Builder) Connect(source, target string) *Builder {
	if !b.nodeIDs[source] {
		b.errs = append(b.errs, fmt.Errorf("%w: source %s", domain.ErrDanglingEdge, source))
		return b
	}
	if !b.nodeIDs[target] {
		b.errs = append(b.errs, fmt.Errorf("%w: target %s", domain.ErrDanglingEdge, target))
		return b
	}
	b.edgeSeq++
	b.workflow.Edges = append(b.workflow.Edges, domain.Edge{
		ID:     fmt.Sprintf("e%d-%s-%s", b.edgeSeq, source, target),
		Source: source,
		Target: target,
	})
	return b
}

// Build returns the assembled workflow, or the first error recorded
// during the chain.
func (b *Builder) Build() (*domain.Workflow, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("build workflow %s: %w", b.workflow.ID, b.errs[0])
	}
	w := b.workflow.Clone()
	return w, nil
}

// NodeSpec pairs a node type with its payload.
type NodeSpec struct {
	Type string
	Data domain.NodeData
}

// Trigger describes a trigger node firing on the given event.
func Trigger(event string) NodeSpec {
	return NodeSpec{Type: domain.NodeTypeTrigger, Data: domain.ActionData{ActionType: event}}
}

// Message describes a message node.
func Message(content string, buttons ...domain.Button) NodeSpec {
	return NodeSpec{Type: domain.NodeTypeMessage, Data: domain.MessageData{Content: content, Buttons: buttons}}
}

// Question describes a question node.
func Question(content string, buttons ...domain.Button) NodeSpec {
	return NodeSpec{Type: domain.NodeTypeQuestion, Data: domain.MessageData{Content: content, Buttons: buttons}}
}

// Condition describes a condition node.
func Condition(field string, op domain.Operator, value string) NodeSpec {
	return NodeSpec{Type: domain.NodeTypeCondition, Data: domain.ConditionData{Field: field, Operator: op, Value: value}}
}

// Action describes an action node.
func Action(actionType string, params map[string]any) NodeSpec {
	return NodeSpec{Type: domain.NodeTypeAction, Data: domain.ActionData{ActionType: actionType, Parameters: params}}
}

// Delay describes a delay node waiting the given number of seconds.
func Delay(seconds int) NodeSpec {
	return NodeSpec{Type: domain.NodeTypeDelay, Data: domain.DelayData{Duration: seconds}}
}
