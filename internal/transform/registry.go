package transform

import (
	"fmt"
	"sort"
	"strings"

	dsxerrors "github.com/alexisbeaulieu97/dsxform/pkg/errors"
)

// PluginRef identifies a plugin dialog. Name is the identity key; Config is
// passed to the plugin dialog untouched.
type PluginRef struct {
	Name        string
	Description string
	Config      any
}

// PluginSource yields the currently registered plugins in presentation order.
type PluginSource interface {
	Plugins() []PluginRef
}

// PluginSourceFunc adapts a function to PluginSource.
type PluginSourceFunc func() []PluginRef

// Plugins implements PluginSource.
func (f PluginSourceFunc) Plugins() []PluginRef {
	return f()
}

// DuplicatePluginError lists plugin names registered more than once. It is a
// warning: the registry still returns a complete action list with the
// colliding entries disabled.
type DuplicatePluginError struct {
	Names []string
}

func (e *DuplicatePluginError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("plugin name registered more than once: %s\nHint: rename one of the plugins so every name is unique", strings.Join(quoted, ", "))
}

// Registry lists built-in actions followed by plugin actions. It holds only
// immutable configuration and queries the plugin source on every call.
type Registry struct {
	overrides map[string]bool
}

// NewRegistry returns a Registry. overrides force-enable (true) or
// force-disable (false) built-in actions by id.
func NewRegistry(overrides map[string]bool) (*Registry, error) {
	copied := make(map[string]bool, len(overrides))
	for id, enabled := range overrides {
		if !isBuiltinID(id) {
			return nil, dsxerrors.NewValidationError(
				"actions.overrides",
				fmt.Sprintf("unknown action id %q%s", id, suggestionSuffix(id, BuiltinIDs())),
				nil,
			)
		}
		copied[id] = enabled
	}
	return &Registry{overrides: copied}, nil
}

// ListActions returns the built-in actions in fixed order followed by the
// plugins yielded by source. When plugin names collide every colliding entry is
// kept with Conflict set and a *DuplicatePluginError is returned with the list.
// Repeated names get an occurrence suffix ("plugin:Foo#2") so ids stay unique.
func (r *Registry) ListActions(source PluginSource) ([]Action, error) {
	actions := BuiltinActions()
	if r != nil {
		for i := range actions {
			if enabled, ok := r.overrides[actions[i].ID]; ok {
				actions[i].Override = Always(enabled)
			}
		}
	}

	if source == nil {
		return actions, nil
	}

	plugins := source.Plugins()
	counts := make(map[string]int, len(plugins))
	for _, p := range plugins {
		counts[p.Name]++
	}

	var duplicates []string
	for name, n := range counts {
		if n > 1 {
			duplicates = append(duplicates, name)
		}
	}
	sort.Strings(duplicates)

	seen := make(map[string]int, len(plugins))
	for _, p := range plugins {
		ref := p
		seen[ref.Name]++
		id := PluginActionPrefix + ref.Name
		if n := seen[ref.Name]; n > 1 {
			id = fmt.Sprintf("%s#%d", id, n)
		}
		action := Action{
			ID:     id,
			Label:  ref.Name,
			Plugin: &ref,
		}
		if counts[ref.Name] > 1 {
			action.Conflict = true
			action.Override = Always(false)
		}
		actions = append(actions, action)
	}

	if len(duplicates) > 0 {
		return actions, &DuplicatePluginError{Names: duplicates}
	}
	return actions, nil
}
