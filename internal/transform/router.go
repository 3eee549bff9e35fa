package transform

import (
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

// DialogKind tells which kind of dialog is visible.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogBuiltIn
	DialogPlugin
)

// ActiveDialog is the dialog the current state makes visible.
type ActiveDialog struct {
	Kind     DialogKind
	ActionID string
	Plugin   *PluginRef
}

// DialogProps is the contract handed to every mounted dialog. A dialog calls
// OnChangeDataset to commit a result and OnClose to dismiss without change.
type DialogProps struct {
	Open            bool
	Dataset         dataset.Snapshot
	OnClose         func()
	OnChangeDataset func(*dataset.Dataset) error
}

// MountedDialog pairs a dialog identity with its props.
type MountedDialog struct {
	Kind     DialogKind
	ActionID string
	Plugin   *PluginRef
	Props    DialogProps
}

// Router maps selection state to dialog visibility.
type Router struct {
	dialogs []string
	relay   *MutationRelay
}

// NewRouter returns a Router for the built-in dialogs with the given action
// ids. Ids without a dialog never become visible.
func NewRouter(dialogIDs []string, relay *MutationRelay) *Router {
	return &Router{
		dialogs: append([]string(nil), dialogIDs...),
		relay:   relay,
	}
}

// Active reports which dialog state makes visible.
func (r *Router) Active(state State) ActiveDialog {
	switch state.Kind() {
	case StateBuiltIn:
		if r.hasDialog(state.ActionID()) {
			return ActiveDialog{Kind: DialogBuiltIn, ActionID: state.ActionID()}
		}
	case StatePlugin:
		ref, _ := state.Plugin()
		return ActiveDialog{Kind: DialogPlugin, Plugin: &ref}
	}
	return ActiveDialog{Kind: DialogNone}
}

// Mount returns every built-in dialog plus the plugin dialog when a plugin is
// selected. At most one entry has Props.Open set.
func (r *Router) Mount(state State, snap dataset.Snapshot) []MountedDialog {
	active := r.Active(state)

	mounted := make([]MountedDialog, 0, len(r.dialogs)+1)
	for _, id := range r.dialogs {
		open := active.Kind == DialogBuiltIn && active.ActionID == id
		mounted = append(mounted, MountedDialog{
			Kind:     DialogBuiltIn,
			ActionID: id,
			Props:    r.props(open, snap),
		})
	}
	if active.Kind == DialogPlugin {
		mounted = append(mounted, MountedDialog{
			Kind:   DialogPlugin,
			Plugin: active.Plugin,
			Props:  r.props(true, snap),
		})
	}
	return mounted
}

// Props returns the props of the visible dialog, if any.
func (r *Router) Props(state State, snap dataset.Snapshot) (ActiveDialog, DialogProps, bool) {
	active := r.Active(state)
	if active.Kind == DialogNone {
		return active, DialogProps{}, false
	}
	return active, r.props(true, snap), true
}

func (r *Router) props(open bool, snap dataset.Snapshot) DialogProps {
	return DialogProps{
		Open:            open,
		Dataset:         snap,
		OnClose:         r.relay.OnClose,
		OnChangeDataset: r.relay.OnChangeDataset,
	}
}

func (r *Router) hasDialog(id string) bool {
	for _, d := range r.dialogs {
		if d == id {
			return true
		}
	}
	return false
}
