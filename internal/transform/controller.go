package transform

import (
	"sync"

	"github.com/alexisbeaulieu97/dsxform/internal/logger"
)

// StateKind enumerates the selection states.
type StateKind int

const (
	StateNone StateKind = iota
	StateBuiltIn
	StatePlugin
)

func (k StateKind) String() string {
	switch k {
	case StateBuiltIn:
		return "builtin"
	case StatePlugin:
		return "plugin"
	default:
		return "none"
	}
}

// State is the current selection. Exactly one of ActionID and Plugin is
// meaningful, as reported by Kind.
type State struct {
	kind     StateKind
	actionID string
	plugin   PluginRef
}

// Kind reports which dialog kind is selected.
func (s State) Kind() StateKind { return s.kind }

// ActionID returns the selected built-in action id, or "".
func (s State) ActionID() string {
	if s.kind != StateBuiltIn {
		return ""
	}
	return s.actionID
}

// Plugin returns the selected plugin and whether one is selected.
func (s State) Plugin() (PluginRef, bool) {
	if s.kind != StatePlugin {
		return PluginRef{}, false
	}
	return s.plugin, true
}

// IsNone reports whether nothing is selected.
func (s State) IsNone() bool { return s.kind == StateNone }

func (s State) String() string {
	switch s.kind {
	case StateBuiltIn:
		return "BuiltIn(" + s.actionID + ")"
	case StatePlugin:
		return "Plugin(" + s.plugin.Name + ")"
	default:
		return "None"
	}
}

// Controller holds the single open dialog selection. Every transition replaces
// the whole state under one lock, so a built-in and a plugin are never open together.
//
// Callers must only select actions that IsEnabled reported as enabled; the
// controller does not re-check.
type Controller struct {
	mu    sync.Mutex
	state State
	log   *logger.Logger
}

// NewController returns a Controller in the None state.
func NewController(log *logger.Logger) *Controller {
	return &Controller{log: log}
}

// State returns the current selection.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectBuiltIn opens the built-in dialog id, closing anything else.
// convert-keyframes-to-samples has no dialog and resolves to None.
func (c *Controller) SelectBuiltIn(id string) State {
	next := State{kind: StateBuiltIn, actionID: id}
	if id == ActionConvertKeyframesToSamples {
		// TODO: route to a keyframes dialog once one exists; the action is inert until then.
		next = State{}
	}
	return c.set(next)
}

// SelectPlugin opens the plugin dialog for ref, closing anything else.
func (c *Controller) SelectPlugin(ref PluginRef) State {
	return c.set(State{kind: StatePlugin, plugin: ref})
}

// Close returns to None. Closing an already closed controller is a no-op.
func (c *Controller) Close() State {
	return c.set(State{})
}

func (c *Controller) set(next State) State {
	c.mu.Lock()
	prev := c.state
	c.state = next
	c.mu.Unlock()

	if prev.String() != next.String() {
		c.log.WithFields(map[string]any{"from": prev.String(), "to": next.String()}).Debug("dialog selection changed")
	}
	return next
}
