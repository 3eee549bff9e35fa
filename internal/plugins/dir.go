package plugins

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

// DirSource reads one manifest per *.yaml / *.yml file in a directory. The
// directory is re-read on every call so plugins dropped in or removed while
// the menu is open show up on the next render.
type DirSource struct {
	dir    string
	logger *logger.Logger
}

// NewDirSource returns a DirSource for dir.
func NewDirSource(dir string, log *logger.Logger) *DirSource {
	return &DirSource{dir: dir, logger: log}
}

// Plugins implements transform.PluginSource. Unreadable or invalid manifests
// are logged and skipped; a missing directory yields no plugins.
func (s *DirSource) Plugins() []transform.PluginRef {
	if s == nil || s.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.With("dir", s.dir).Error(err, "read plugin directory")
		}
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	refs := make([]transform.PluginRef, 0, len(names))
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		m, err := config.ParsePluginManifest(path)
		if err != nil {
			s.logger.With("manifest", path).Error(err, "skipping invalid plugin manifest")
			continue
		}
		refs = append(refs, ToRef(*m))
	}
	return refs
}
