package lattice

import (
	"log/slog"

	"github.com/latticehq/lattice/internal/logging"
	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/graph"
	"github.com/latticehq/lattice/pkg/layout"
	"github.com/latticehq/lattice/pkg/palette"
	"github.com/latticehq/lattice/pkg/registry"
)

// Editor is the high-level entry point: one editing session over one
// workflow, wiring the graph store, type registry, layout engine and
// command palette together.
type Editor struct {
	store    *graph.Store
	registry *registry.Registry
	layout   *layout.Engine
	palette  *palette.Palette
	logger   *slog.Logger

	commands   []palette.Command
	storeHooks []graph.Hook
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets a structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) { e.logger = logger }
}

// WithRegistry replaces the default node type registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Editor) { e.registry = reg }
}

// WithLayoutEngine replaces the default layout engine.
func WithLayoutEngine(eng *layout.Engine) Option {
	return func(e *Editor) { e.layout = eng }
}

// WithCommands registers palette commands beyond the built-in set.
func WithCommands(commands ...palette.Command) Option {
	return func(e *Editor) { e.commands = append(e.commands, commands...) }
}

// WithHook registers a graph mutation observer (metrics, SSE fan-out).
func WithHook(h graph.Hook) Option {
	return func(e *Editor) { e.storeHooks = append(e.storeHooks, h) }
}

// New creates an editor for an empty workflow with the given identity.
func New(workflowID, name string, opts ...Option) *Editor {
	e := &Editor{}
	for _, opt := range opts {
		opt(e)
	}
	e.finish(workflowID, name, nil)
	return e
}

// Open creates an editor over an existing workflow, validating it on
// the way in.
func Open(w *domain.Workflow, opts ...Option) (*Editor, error) {
	e := &Editor{}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.finish(w.ID, w.Name, w); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Editor) finish(workflowID, name string, w *domain.Workflow) error {
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.registry == nil {
		e.registry = registry.New()
	}
	if e.layout == nil {
		e.layout = layout.NewEngine()
	}

	storeOpts := []graph.Option{graph.WithLogger(e.logger)}
	for _, h := range e.storeHooks {
		storeOpts = append(storeOpts, graph.WithHook(h))
	}
	if w != nil {
		store, err := graph.FromWorkflow(w, storeOpts...)
		if err != nil {
			return err
		}
		e.store = store
	} else {
		e.store = graph.New(workflowID, name, storeOpts...)
	}

	// Built-in palette commands operate on the session itself;
	// WithCommands entries (navigation targets etc.) come after.
	builtin := []palette.Command{
		{ID: "layout-lr", Label: "Tidy layout (left to right)", Keywords: []string{"arrange", "auto"},
			Run: func() { _ = e.AutoLayout(layout.DirectionLR) }},
		{ID: "layout-tb", Label: "Tidy layout (top to bottom)", Keywords: []string{"arrange", "vertical"},
			Run: func() { _ = e.AutoLayout(layout.DirectionTB) }},
		{ID: "deselect", Label: "Clear selection", Keywords: []string{"escape"},
			Run: func() { e.store.Deselect() }},
	}
	e.palette = palette.New(append(builtin, e.commands...)...)
	return nil
}

// AddNode inserts a node into the graph.
func (e *Editor) AddNode(n domain.Node) error { return e.store.AddNode(n) }

// UpdateNode merges a partial payload into a node's data.
func (e *Editor) UpdateNode(id string, partial map[string]any) error {
	return e.store.UpdateNode(id, partial)
}

// MoveNode repositions a node on the canvas.
func (e *Editor) MoveNode(id string, pos domain.Position) error {
	return e.store.MoveNode(id, pos)
}

// DeleteNode removes a node and every edge touching it.
func (e *Editor) DeleteNode(id string) error { return e.store.DeleteNode(id) }

// AddEdge connects two existing nodes.
func (e *Editor) AddEdge(edge domain.Edge) error { return e.store.AddEdge(edge) }

// DeleteEdge disconnects an edge.
func (e *Editor) DeleteEdge(id string) error { return e.store.DeleteEdge(id) }

// Select marks a node as selected for the properties panel.
func (e *Editor) Select(id string) error { return e.store.Select(id) }

// Deselect clears the selection.
func (e *Editor) Deselect() { e.store.Deselect() }

// Selected returns the currently selected node, if any.
func (e *Editor) Selected() (domain.Node, bool) { return e.store.Selected() }

// AutoLayout recomputes every node position with the layout engine and
// applies the result to the store.
func (e *Editor) AutoLayout(dir layout.Direction) error {
	nodes, err := e.layout.Layout(e.store.Nodes(), e.store.Edges(), dir)
	if err != nil {
		return err
	}
	positions := make(map[string]domain.Position, len(nodes))
	for _, n := range nodes {
		positions[n.ID] = n.Position
	}
	return e.store.SetPositions(positions)
}

// Workflow captures the current graph for persistence.
func (e *Editor) Workflow() *domain.Workflow { return e.store.Snapshot() }

// Store exposes the underlying graph store.
func (e *Editor) Store() *graph.Store { return e.store }

// Registry exposes the node type registry.
func (e *Editor) Registry() *registry.Registry { return e.registry }

// Palette exposes the command palette.
func (e *Editor) Palette() *palette.Palette { return e.palette }
