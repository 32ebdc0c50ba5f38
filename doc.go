/*
Package lattice is the edit core behind a node-based workflow editor:
an in-memory directed graph of typed nodes and edges kept consistent
under every mutation, with deterministic auto-layout, a node type
registry, a command palette and pluggable persistence.

The architecture is hexagonal. The core (graph store, layout engine,
registry, palette) is pure in-memory state with no I/O; persistence and
serving live in adapters (memory, file, redis, HTTP, MCP) behind the
ports interfaces.

# Usage

	ed := lattice.New("wf-1", "My flow")
	_ = ed.AddNode(domain.Node{ID: "n1", Type: domain.NodeTypeMessage,
		Data: domain.MessageData{Content: "hi"}})
	_ = ed.AddNode(domain.Node{ID: "n2", Type: domain.NodeTypeCondition,
		Data: domain.ConditionData{Field: "x", Operator: domain.OperatorEquals, Value: "1"}})
	_ = ed.AddEdge(domain.Edge{ID: "e1", Source: "n1", Target: "n2"})
	_ = ed.AutoLayout(layout.DirectionLR)

Deleting a node cascades to every edge touching it, so the invariant
"every edge endpoint refers to an existing node" holds after every
operation.
*/
package lattice
