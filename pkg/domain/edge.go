package domain

// Edge is a directed connection between two nodes.
// Both endpoints must reference existing node IDs; the graph store
// enforces this on every mutation.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Touches reports whether the edge references the given node on either end.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}
