// Package palette implements the keyboard-driven command palette: a
// two-state machine (closed/open) over a statically registered command
// list, filtered by case-insensitive substring match while open.
package palette

import (
	"errors"
	"strings"
	"sync"
)

// State is the palette state machine position.
type State string

const (
	StateClosed State = "closed"
	StateOpen   State = "open"
)

// ErrUnknownCommand is returned when executing an ID that is not
// registered or is filtered out by the current query.
var ErrUnknownCommand = errors.New("palette: unknown command")

// Command is a single palette entry bound to an action: a navigation
// target or a graph mutation callback.
type Command struct {
	ID       string
	Label    string
	Keywords []string
	Run      func()
}

func (c Command) matches(query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Label), query) {
		return true
	}
	for _, kw := range c.Keywords {
		if strings.Contains(strings.ToLower(kw), query) {
			return true
		}
	}
	return false
}

// Palette is the command dispatcher. Commands are fixed at
// construction; only the open/closed state and the query change.
type Palette struct {
	mu       sync.Mutex
	state    State
	query    string
	commands []Command
}

// New creates a closed palette with the given command list.
func New(commands ...Command) *Palette {
	return &Palette{
		state:    StateClosed,
		commands: commands,
	}
}

// State returns the current state.
func (p *Palette) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Toggle flips between open and closed, as bound to the global hotkey.
func (p *Palette) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateOpen {
		p.close()
		return
	}
	p.state = StateOpen
}

// Open transitions to open. Opening an open palette is a no-op.
func (p *Palette) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateOpen
}

// Close transitions to closed and clears the query, as bound to escape
// and outside-click.
func (p *Palette) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.close()
}

func (p *Palette) close() {
	p.state = StateClosed
	p.query = ""
}

// SetQuery replaces the free-text filter. Ignored while closed.
func (p *Palette) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateOpen {
		return
	}
	p.query = query
}

// Query returns the current filter text.
func (p *Palette) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Matches returns the commands whose label or keywords contain the
// query, case-insensitively. An empty query matches everything. A
// closed palette renders nothing.
func (p *Palette) Matches() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateOpen {
		return nil
	}
	query := strings.ToLower(p.query)
	var out []Command
	for _, c := range p.commands {
		if c.matches(query) {
			out = append(out, c)
		}
	}
	return out
}

// Execute runs the action bound to the given command ID, then closes
// the palette and clears the query. The command must be visible under
// the current filter.
func (p *Palette) Execute(id string) error {
	p.mu.Lock()
	if p.state != StateOpen {
		p.mu.Unlock()
		return ErrUnknownCommand
	}
	query := strings.ToLower(p.query)
	var run func()
	for _, c := range p.commands {
		if c.ID == id && c.matches(query) {
			run = c.Run
			break
		}
	}
	if run == nil {
		p.mu.Unlock()
		return ErrUnknownCommand
	}
	p.close()
	p.mu.Unlock()

	run()
	return nil
}
