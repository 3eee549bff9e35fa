// Package journal persists a bounded record of transform runs between sessions.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// DefaultLimit bounds the journal when no limit is configured.
const DefaultLimit = 200

// Journal is a JSON file of the most recent runs, oldest first.
type Journal struct {
	path    string
	limit   int
	mu      sync.RWMutex
	version string
	entries []Entry
}

// DefaultPath returns journal.json under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dsxform", "journal.json"), nil
}

// Open creates the journal directory and loads existing entries.
func Open(path string, limit int) (*Journal, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	j := &Journal{path: path, limit: limit, version: "1.0"}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	if err := j.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		j.entries = []Entry{}
	}
	return j, nil
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Load reads the journal from disk
func (j *Journal) Load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse journal: %w", err)
	}

	if file.Version != "" {
		j.version = file.Version
	}
	j.entries = file.Entries
	if j.entries == nil {
		j.entries = []Entry{}
	}
	return nil
}

// Record appends e, drops the oldest entries beyond the limit and saves.
// Missing ids are generated.
func (j *Journal) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	j.mu.Lock()
	j.entries = append(j.entries, e)
	if over := len(j.entries) - j.limit; over > 0 {
		j.entries = append([]Entry(nil), j.entries[over:]...)
	}
	j.mu.Unlock()

	return e, j.save()
}

// Entries returns the runs recorded for datasetID, newest first. An empty
// datasetID returns every run.
func (j *Journal) Entries(datasetID string) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Entry, 0, len(j.entries))
	for i := len(j.entries) - 1; i >= 0; i-- {
		if datasetID == "" || j.entries[i].DatasetID == datasetID {
			out = append(out, j.entries[i])
		}
	}
	return out
}

// save writes the journal to disk atomically
func (j *Journal) save() error {
	j.mu.RLock()
	file := File{Version: j.version, Entries: j.entries}
	data, err := json.MarshalIndent(file, "", "  ")
	j.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	tmpPath := j.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, j.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
