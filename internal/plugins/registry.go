// Package plugins discovers externally supplied transform plugins and runs them.
package plugins

import (
	"sync"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

// Registry is an in-memory, ordered plugin list that can change at runtime.
// It keeps registrations with the same name so the action registry can report
// the collision.
type Registry struct {
	mu      sync.RWMutex
	entries []config.PluginManifest
	logger  *logger.Logger
}

// NewRegistry returns a registry seeded with manifests.
func NewRegistry(log *logger.Logger, manifests ...config.PluginManifest) *Registry {
	return &Registry{logger: log, entries: append([]config.PluginManifest(nil), manifests...)}
}

// Register appends m after validating it.
func (r *Registry) Register(m config.PluginManifest) error {
	if err := config.ValidatePluginManifest(&m); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.Name == m.Name {
			r.logWarn(m.Name, "plugin name already registered")
			break
		}
	}
	r.entries = append(r.entries, m)
	return nil
}

// Plugins implements transform.PluginSource.
func (r *Registry) Plugins() []transform.PluginRef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := make([]transform.PluginRef, len(r.entries))
	for i, e := range r.entries {
		refs[i] = ToRef(e)
	}
	return refs
}

func (r *Registry) logWarn(name, msg string) {
	if r.logger == nil {
		return
	}
	r.logger.With("plugin", name).Warn(msg)
}

// ToRef converts a manifest into the reference handed to the plugin dialog.
func ToRef(m config.PluginManifest) transform.PluginRef {
	return transform.PluginRef{Name: m.Name, Description: m.Description, Config: m}
}

// ManifestFromRef recovers the manifest stored in ref.Config.
func ManifestFromRef(ref transform.PluginRef) (config.PluginManifest, bool) {
	switch m := ref.Config.(type) {
	case config.PluginManifest:
		return m, true
	case *config.PluginManifest:
		if m == nil {
			return config.PluginManifest{}, false
		}
		return *m, true
	default:
		return config.PluginManifest{}, false
	}
}

// Chain concatenates sources in order.
func Chain(sources ...transform.PluginSource) transform.PluginSource {
	return transform.PluginSourceFunc(func() []transform.PluginRef {
		var refs []transform.PluginRef
		for _, s := range sources {
			if s == nil {
				continue
			}
			refs = append(refs, s.Plugins()...)
		}
		return refs
	})
}
