// Package registry maps node types to their visual category and
// trigger classification. Lookups are pure and data-driven: adding a
// node type is a table entry, not a code change in consumers.
package registry

import (
	"sync"

	"github.com/latticehq/lattice/pkg/domain"
)

// Category is the visual/semantic grouping of a node type.
type Category struct {
	// Key identifies the group: "triggers", "logic", "outputs", "timing".
	Key string `json:"key"`
	// Icon is the symbolic icon name rendered by clients.
	Icon string `json:"icon"`
	// Class is the style class applied to nodes of this category.
	Class string `json:"class"`
}

// DefaultCategory is resolved for unknown node types.
var DefaultCategory = Category{Key: "other", Icon: "box", Class: "node-other"}

type entry struct {
	category Category
	trigger  bool
}

// Registry resolves node types to categories. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

var defaults = map[string]entry{
	domain.NodeTypeTrigger:   {Category{Key: "triggers", Icon: "zap", Class: "node-trigger"}, true},
	domain.NodeTypeMessage:   {Category{Key: "outputs", Icon: "message-square", Class: "node-output"}, false},
	domain.NodeTypeQuestion:  {Category{Key: "outputs", Icon: "help-circle", Class: "node-output"}, false},
	domain.NodeTypeCondition: {Category{Key: "logic", Icon: "git-branch", Class: "node-logic"}, false},
	domain.NodeTypeAction:    {Category{Key: "outputs", Icon: "play", Class: "node-output"}, false},
	domain.NodeTypeDelay:     {Category{Key: "timing", Icon: "clock", Class: "node-timing"}, false},
}

// New creates a registry seeded with the built-in node types.
func New() *Registry {
	entries := make(map[string]entry, len(defaults))
	for k, v := range defaults {
		entries[k] = v
	}
	return &Registry{entries: entries}
}

// Register adds or replaces a node type entry.
func (r *Registry) Register(nodeType string, cat Category, trigger bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[nodeType] = entry{category: cat, trigger: trigger}
}

// Category returns the category for a node type, or DefaultCategory if
// the type is unknown.
func (r *Registry) Category(nodeType string) Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[nodeType]; ok {
		return e.category
	}
	return DefaultCategory
}

// IsTrigger reports whether the node type starts a workflow. Unknown
// types are not triggers.
func (r *Registry) IsTrigger(nodeType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[nodeType].trigger
}

// Known reports whether the node type has an explicit entry.
func (r *Registry) Known(nodeType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[nodeType]
	return ok
}
