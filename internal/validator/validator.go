// Package validator checks workflow integrity before persistence or
// layout: unique IDs, intact edge endpoints and reachability from the
// trigger nodes.
package validator

import (
	"fmt"
	"strings"

	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/registry"
)

// Validate inspects the workflow and returns a single error listing
// every problem found, or nil when the graph is sound.
func Validate(w *domain.Workflow, reg *registry.Registry) error {
	problems := structure(w)
	problems = append(problems, unreachable(w, reg)...)
	return report(w, problems)
}

// ValidateStructure checks only the integrity a workflow must hold to
// be stored at all: unique ids, intact edge endpoints, valid payloads.
// Reachability is left out so partial drafts can be saved.
func ValidateStructure(w *domain.Workflow) error {
	return report(w, structure(w))
}

func structure(w *domain.Workflow) []string {
	var problems []string

	nodeIDs := make(map[string]bool, len(w.Nodes))
	for _, n := range w.Nodes {
		if n.ID == "" {
			problems = append(problems, "node with empty id")
			continue
		}
		if nodeIDs[n.ID] {
			problems = append(problems, fmt.Sprintf("duplicate node id %q", n.ID))
		}
		nodeIDs[n.ID] = true

		if cond, ok := n.Data.(domain.ConditionData); ok && !cond.Operator.Valid() {
			problems = append(problems, fmt.Sprintf("node %q: unknown operator %q", n.ID, cond.Operator))
		}
	}

	edgeIDs := make(map[string]bool, len(w.Edges))
	for _, e := range w.Edges {
		if edgeIDs[e.ID] {
			problems = append(problems, fmt.Sprintf("duplicate edge id %q", e.ID))
		}
		edgeIDs[e.ID] = true
		if !nodeIDs[e.Source] {
			problems = append(problems, fmt.Sprintf("edge %q: missing source %q", e.ID, e.Source))
		}
		if !nodeIDs[e.Target] {
			problems = append(problems, fmt.Sprintf("edge %q: missing target %q", e.ID, e.Target))
		}
	}

	return problems
}

func report(w *domain.Workflow, problems []string) error {
	if len(problems) > 0 {
		return fmt.Errorf("workflow %s: %d problems:\n- %s",
			w.ID, len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// unreachable walks the graph from every trigger node and reports the
// nodes no trigger can reach. Workflows without triggers are exempt:
// partial drafts are legal.
func unreachable(w *domain.Workflow, reg *registry.Registry) []string {
	var roots []string
	for _, n := range w.Nodes {
		if reg.IsTrigger(n.Type) {
			roots = append(roots, n.ID)
		}
	}
	if len(roots) == 0 {
		return nil
	}

	next := make(map[string][]string)
	for _, e := range w.Edges {
		next[e.Source] = append(next[e.Source], e.Target)
	}

	visited := make(map[string]bool)
	queue := roots
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		queue = append(queue, next[id]...)
	}

	var problems []string
	for _, n := range w.Nodes {
		if !visited[n.ID] {
			problems = append(problems, fmt.Sprintf("node %q unreachable from any trigger", n.ID))
		}
	}
	return problems
}
