package middleware

import (
	"context"
	"regexp"

	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/ports"
)

type maskingMiddleware struct {
	next     ports.WorkflowStore
	patterns []*regexp.Regexp
}

// NewMaskingMiddleware creates a middleware that masks action parameter
// values whose keys match any of the patterns before they reach the
// backing store. Loads return the masked values unchanged.
func NewMaskingMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.WorkflowStore) ports.WorkflowStore {
		return &maskingMiddleware{next: next, patterns: patterns}
	}
}

func (m *maskingMiddleware) Save(ctx context.Context, w *domain.Workflow) error {
	// Clone first so the caller's in-memory workflow keeps its values.
	cloned := w.Clone()
	for i, n := range cloned.Nodes {
		action, ok := n.Data.(domain.ActionData)
		if !ok {
			continue
		}
		maskMap(action.Parameters, m.patterns)
		cloned.Nodes[i].Data = action
	}
	return m.next.Save(ctx, cloned)
}

func (m *maskingMiddleware) Load(ctx context.Context, id string) (*domain.Workflow, error) {
	return m.next.Load(ctx, id)
}

func (m *maskingMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *maskingMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
