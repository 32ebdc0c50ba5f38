package graph

import (
	"fmt"
	"strings"

	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/registry"
)

// GenerateMarkdown produces a markdown summary of a workflow, grouped
// by category. The show command renders it through glamour.
func GenerateMarkdown(w *domain.Workflow, reg *registry.Registry) string {
	var sb strings.Builder
	name := w.Name
	if name == "" {
		name = w.ID
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "%d nodes, %d edges\n\n", len(w.Nodes), len(w.Edges))

	byCategory := make(map[string][]domain.Node)
	var order []string
	for _, n := range w.Nodes {
		key := reg.Category(n.Type).Key
		if _, seen := byCategory[key]; !seen {
			order = append(order, key)
		}
		byCategory[key] = append(byCategory[key], n)
	}

	for _, key := range order {
		fmt.Fprintf(&sb, "## %s\n\n", key)
		for _, n := range byCategory[key] {
			fmt.Fprintf(&sb, "- **%s** (`%s`): %s\n", n.ID, n.Type, label(n))
		}
		sb.WriteString("\n")
	}

	if len(w.Edges) > 0 {
		sb.WriteString("## connections\n\n")
		for _, e := range w.Edges {
			fmt.Fprintf(&sb, "- `%s` → `%s`\n", e.Source, e.Target)
		}
	}
	return sb.String()
}
