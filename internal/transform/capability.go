package transform

import (
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

// CapabilityKind is an environment fact an action may depend on.
type CapabilityKind int

const (
	// CapabilityNone marks actions available everywhere.
	CapabilityNone CapabilityKind = iota
	// CapabilityDesktopOnly marks actions that need local filesystem and process access.
	CapabilityDesktopOnly
)

func (c CapabilityKind) String() string {
	switch c {
	case CapabilityDesktopOnly:
		return "desktop-only"
	default:
		return "none"
	}
}

// Environment probes the capabilities of the running process.
type Environment interface {
	IsDesktop() bool
}

// StaticEnvironment is an Environment with a fixed answer.
type StaticEnvironment struct {
	Desktop bool
}

// IsDesktop implements Environment.
func (e StaticEnvironment) IsDesktop() bool {
	return e.Desktop
}

// EnvironmentFunc adapts a function to Environment.
type EnvironmentFunc func() bool

// IsDesktop implements Environment.
func (f EnvironmentFunc) IsDesktop() bool {
	return f()
}

// Predicate evaluates a dataset snapshot.
type Predicate func(dataset.Snapshot) bool

// RequireInterfaceType is satisfied when the dataset interface type equals want.
func RequireInterfaceType(want string) Predicate {
	return func(s dataset.Snapshot) bool {
		return s.InterfaceType() == want
	}
}

// Always returns a predicate with a constant result.
func Always(v bool) Predicate {
	return func(dataset.Snapshot) bool { return v }
}

// IsEnabled reports whether action may be selected. An explicit Override wins
// over the capability and dataset requirement. A nil env is treated as web.
func IsEnabled(action Action, env Environment, snap dataset.Snapshot) bool {
	if action.Override != nil {
		return action.Override(snap)
	}
	if action.Capability == CapabilityDesktopOnly && (env == nil || !env.IsDesktop()) {
		return false
	}
	if action.Requirement != nil && !action.Requirement(snap) {
		return false
	}
	return true
}
