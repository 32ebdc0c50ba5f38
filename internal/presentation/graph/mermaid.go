// Package graph renders workflows as Mermaid flowchart text for the
// export command and the HTTP export endpoint.
package graph

import (
	"fmt"
	"strings"

	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/registry"
)

// GenerateMermaid produces Mermaid flowchart syntax from a workflow.
// Node shapes follow the category: triggers are circles, logic nodes
// diamonds, delays parallelograms, everything else rectangles.
func GenerateMermaid(w *domain.Workflow, reg *registry.Registry) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range w.Nodes {
		safeID := sanitizeID(node.ID)

		opener, closer := "[", "]"
		switch {
		case reg.IsTrigger(node.Type):
			opener, closer = "((", "))"
		case reg.Category(node.Type).Key == "logic":
			opener, closer = "{", "}"
		case reg.Category(node.Type).Key == "timing":
			opener, closer = "[/", "/]"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label(node), closer))
	}

	for _, e := range w.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeID(e.Source), sanitizeID(e.Target)))
	}

	return sb.String()
}

// label picks a short human caption for a node from its payload.
func label(n domain.Node) string {
	switch d := n.Data.(type) {
	case domain.MessageData:
		if d.Content != "" {
			return escape(truncate(d.Content, 32))
		}
	case domain.ConditionData:
		return escape(fmt.Sprintf("%s %s %s", d.Field, d.Operator, d.Value))
	case domain.ActionData:
		if d.ActionType != "" {
			return escape(d.ActionType)
		}
	case domain.DelayData:
		return fmt.Sprintf("wait %ds", d.Duration)
	}
	return escape(n.ID)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeID(id string) string {
	r := strings.NewReplacer(" ", "_", "-", "_", "/", "_", ".", "_")
	return r.Replace(id)
}
