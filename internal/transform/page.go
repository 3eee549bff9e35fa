package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
)

// ButtonClickedEvent is the analytics event captured for every click.
const ButtonClickedEvent = "transform_button_clicked"

// Tracker receives analytics events.
type Tracker interface {
	Capture(event string, properties map[string]any)
}

// Button is a rendered menu entry with its gate result.
type Button struct {
	Action  Action
	Enabled bool
}

// PageOptions wires a Page. Owner and Controller are required.
type PageOptions struct {
	Registry   *Registry
	Source     PluginSource
	Env        Environment
	Owner      Owner
	Controller *Controller
	// DialogIDs lists built-in actions that have a dialog; defaults to every built-in.
	DialogIDs []string
	Tracker   Tracker
	Logger    *logger.Logger
}

// Page is the calling layer of the transform menu. Buttons carry their own
// click handling, so any caller holding a Button can trigger a selection.
type Page struct {
	registry   *Registry
	source     PluginSource
	env        Environment
	owner      Owner
	controller *Controller
	relay      *MutationRelay
	router     *Router
	tracker    Tracker
	log        *logger.Logger
}

// NewPage wires the registry, controller, relay and router around owner.
func NewPage(opts PageOptions) (*Page, error) {
	if opts.Owner == nil {
		return nil, fmt.Errorf("page owner is required")
	}
	controller := opts.Controller
	if controller == nil {
		controller = NewController(opts.Logger)
	}
	registry := opts.Registry
	if registry == nil {
		registry = &Registry{}
	}
	dialogIDs := opts.DialogIDs
	if dialogIDs == nil {
		dialogIDs = BuiltinIDs()
	}

	relay := NewMutationRelay(opts.Owner, controller)
	return &Page{
		registry:   registry,
		source:     opts.Source,
		env:        opts.Env,
		owner:      opts.Owner,
		controller: controller,
		relay:      relay,
		router:     NewRouter(dialogIDs, relay),
		tracker:    opts.Tracker,
		log:        opts.Logger,
	}, nil
}

// Controller exposes the selection controller.
func (p *Page) Controller() *Controller { return p.controller }

// Router exposes the dialog router.
func (p *Page) Router() *Router { return p.router }

// Dataset returns the owner's current snapshot.
func (p *Page) Dataset() dataset.Snapshot { return p.owner.Dataset() }

// Buttons evaluates the registry and the gate against the current dataset. A
// non-nil error alongside buttons is a registry warning such as
// *DuplicatePluginError; the buttons are still complete.
func (p *Page) Buttons() ([]Button, error) {
	actions, err := p.registry.ListActions(p.source)
	var dup *DuplicatePluginError
	if errors.As(err, &dup) {
		p.log.WithFields(map[string]any{"plugins": dup.Names}).Warn("duplicate plugin names registered")
	}

	snap := p.owner.Dataset()
	buttons := make([]Button, len(actions))
	for i, a := range actions {
		buttons[i] = Button{Action: a, Enabled: IsEnabled(a, p.env, snap)}
	}
	return buttons, err
}

// Click records the click and selects the button's dialog. Clicking a disabled
// button is a caller bug: it is logged and ErrActionDisabled is returned.
func (p *Page) Click(b Button) (State, error) {
	p.capture(b.Action)

	if !b.Enabled {
		p.log.WithFields(map[string]any{"action": b.Action.ID}).Warn("ignored click on disabled action")
		return p.controller.State(), ErrActionDisabled
	}
	if b.Action.Plugin != nil {
		return p.controller.SelectPlugin(*b.Action.Plugin), nil
	}
	return p.controller.SelectBuiltIn(b.Action.ID), nil
}

// ClickID clicks the button whose action id or plugin name equals id.
func (p *Page) ClickID(id string) (State, error) {
	buttons, _ := p.Buttons()

	candidates := make([]string, 0, len(buttons))
	for _, b := range buttons {
		if b.Action.ID == id || (b.Action.Plugin != nil && b.Action.Plugin.Name == id) {
			return p.Click(b)
		}
		candidates = append(candidates, b.Action.ID)
		if b.Action.Plugin != nil {
			candidates = append(candidates, b.Action.Plugin.Name)
		}
	}
	return p.controller.State(), &UnknownActionError{ID: id, Suggestion: closest(id, candidates)}
}

// Active returns the visible dialog and its props.
func (p *Page) Active() (ActiveDialog, DialogProps, bool) {
	return p.router.Props(p.controller.State(), p.owner.Dataset())
}

// Mounted returns every mounted dialog for the current state.
func (p *Page) Mounted() []MountedDialog {
	return p.router.Mount(p.controller.State(), p.owner.Dataset())
}

func (p *Page) capture(a Action) {
	if p.tracker == nil {
		return
	}
	name := a.ID
	if a.Plugin != nil {
		name = strings.TrimPrefix(a.ID, PluginActionPrefix)
	}
	p.tracker.Capture(ButtonClickedEvent, map[string]any{"transform_button": name})
}
