package dsl

import (
	"github.com/google/uuid"

	"github.com/latticehq/lattice/pkg/domain"
)

// WelcomeTemplate is a canned starter workflow: trigger, greeting,
// branch on a profile field, delayed follow-up.
func WelcomeTemplate() *domain.Workflow {
	wf, _ := New("welcome-template", "Welcome flow").
		Node("trigger", Trigger("user_signed_up")).At(0, 0).
		Node("greet", Message("Welcome! How can we help?",
			domain.Button{ID: "b-sales", Text: "Talk to sales"},
			domain.Button{ID: "b-docs", Text: "Read the docs"},
		)).At(300, 0).
		Node("is-trial", Condition("plan", domain.OperatorEquals, "trial")).At(600, 0).
		Node("nudge-delay", Delay(86400)).At(900, 0).
		Node("nudge", Message("Your trial is ticking, need a hand?")).At(1200, 0).
		Connect("trigger", "greet").
		Connect("greet", "is-trial").
		Connect("is-trial", "nudge-delay").
		Connect("nudge-delay", "nudge").
		Build()
	return wf
}

// Instantiate deep-copies a template with fresh unique IDs for the
// workflow, every node and every edge, remapping edge endpoints. The
// result is an independent workflow ready for editing.
func Instantiate(template *domain.Workflow) *domain.Workflow {
	out := template.Clone()
	out.ID = uuid.NewString()

	mapping := make(map[string]string, len(out.Nodes))
	for i := range out.Nodes {
		fresh := uuid.NewString()
		mapping[out.Nodes[i].ID] = fresh
		out.Nodes[i].ID = fresh
	}
	for i := range out.Edges {
		out.Edges[i].ID = uuid.NewString()
		out.Edges[i].Source = mapping[out.Edges[i].Source]
		out.Edges[i].Target = mapping[out.Edges[i].Target]
	}
	return out
}
