package domain

// Graph mutation kinds carried by a GraphDiff.
const (
	OpAddNode    = "add_node"
	OpUpdateNode = "update_node"
	OpMoveNode   = "move_node"
	OpDeleteNode = "delete_node"
	OpAddEdge    = "add_edge"
	OpDeleteEdge = "delete_edge"
	OpSelect     = "select"
	OpLayout     = "layout"
)

// GraphDiff describes a single committed graph mutation. It is designed
// to be serialized to JSON for incremental updates on connected clients.
type GraphDiff struct {
	WorkflowID string `json:"workflow_id,omitempty"`
	Op         string `json:"op"`

	NodeID string `json:"node_id,omitempty"`
	EdgeID string `json:"edge_id,omitempty"`

	// RemovedEdges lists edges cascaded away by a node deletion.
	RemovedEdges []string `json:"removed_edges,omitempty"`

	// Positions carries the recomputed coordinates of a layout or move.
	Positions map[string]Position `json:"positions,omitempty"`
}
