package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	dsxerrors "github.com/alexisbeaulieu97/dsxform/pkg/errors"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	History *History
	Logger  *logger.Logger
}

// Store loads and saves a single dataset file.
type Store struct {
	path    string
	format  Format
	mu      sync.Mutex
	history *History
	log     *logger.Logger
}

// NewStore returns a Store for the dataset at path.
func NewStore(path string, opts StoreOptions) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset path: %w", err)
	}
	return &Store{
		path:    abs,
		format:  FormatForPath(abs),
		history: opts.History,
		log:     opts.Logger,
	}, nil
}

// Path returns the absolute dataset path.
func (s *Store) Path() string {
	return s.path
}

// History returns the attached history, or nil.
func (s *Store) History() *History {
	return s.history
}

// Load reads and decodes the dataset file.
func (s *Store) Load() (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, dsxerrors.NewParseError(s.path, 0, err)
	}
	return Decode(s.path, s.format, data)
}

// Save writes ds atomically and, when history is attached, commits it with message.
func (s *Store) Save(ds *Dataset, message string) error {
	_, err := s.SaveRevision(ds, message)
	return err
}

// HistoryError reports a dataset that was written to disk but could not be
// committed. The file on disk holds the new content.
type HistoryError struct {
	Path string
	Err  error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("record dataset history for %s: %v", e.Path, e.Err)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// SaveRevision is Save returning the commit hash, or "" when no history is
// attached or the content did not change. A failed commit after a successful
// write returns *HistoryError.
func (s *Store) SaveRevision(ds *Dataset, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Encode(ds, s.format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", fmt.Errorf("create dataset directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename temporary file: %w", err)
	}

	if s.history == nil {
		return "", nil
	}
	hash, err := s.history.Commit(s.path, message)
	if err != nil {
		return "", &HistoryError{Path: s.path, Err: err}
	}
	if hash != "" {
		s.log.WithFields(map[string]any{"commit": hash, "path": s.path}).Debug("dataset revision committed")
	}
	return hash, nil
}
