package domain

// Workflow is the persisted unit: a named directed graph of typed nodes.
type Workflow struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node returns the node with the given ID, if present.
func (w *Workflow) Node(id string) (Node, bool) {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Clone returns a deep copy of the workflow. Stores hand out clones so
// callers never alias persisted state.
func (w *Workflow) Clone() *Workflow {
	out := &Workflow{
		ID:    w.ID,
		Name:  w.Name,
		Nodes: make([]Node, len(w.Nodes)),
		Edges: append([]Edge(nil), w.Edges...),
	}
	for i, n := range w.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}
