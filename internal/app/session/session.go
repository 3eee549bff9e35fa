// Package session owns the dataset shown by the transform menu and persists every change.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/journal"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	"github.com/alexisbeaulieu97/dsxform/internal/metrics"
	dsxerrors "github.com/alexisbeaulieu97/dsxform/pkg/errors"
)

// Options wires a Session. Journal and Metrics are optional.
type Options struct {
	Journal *journal.Journal
	Metrics *metrics.Recorder
	Logger  *logger.Logger
	Now     func() time.Time
}

// Session implements transform.Owner on top of a dataset Store.
type Session struct {
	store   *dataset.Store
	journal *journal.Journal
	metrics *metrics.Recorder
	log     *logger.Logger
	now     func() time.Time
	id      string

	mu      sync.RWMutex
	current *dataset.Dataset
	action  string
	started time.Time
}

// Open loads the dataset behind store.
func Open(store *dataset.Store, opts Options) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("dataset store is required")
	}
	ds, err := store.Load()
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		store:   store,
		journal: opts.Journal,
		metrics: opts.Metrics,
		log:     opts.Logger.With("dataset", store.Path()),
		now:     now,
		id:      journal.DatasetID(store.Path()),
		current: ds,
	}
	s.log.With("samples", len(ds.Samples)).Info("dataset loaded")
	return s, nil
}

// ID identifies the dataset in the journal.
func (s *Session) ID() string {
	return s.id
}

// Path returns the dataset file path.
func (s *Session) Path() string {
	return s.store.Path()
}

// Dataset implements transform.Owner.
func (s *Session) Dataset() dataset.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dataset.NewSnapshot(s.current)
}

// Begin marks action as the one whose result the next ChangeDataset commits.
func (s *Session) Begin(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.action = action
	s.started = s.now()
}

// ChangeDataset implements transform.Owner. ds is validated, written to disk
// and then becomes the current dataset. A rejected dataset leaves the current
// one untouched.
func (s *Session) ChangeDataset(ds *dataset.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action := s.action
	if action == "" {
		action = "manual"
	}
	elapsed := s.elapsed()
	before := len(s.current.Samples)

	err := dataset.Validate(ds)
	revision := ""
	if err == nil {
		revision, err = s.store.SaveRevision(ds, "transform: "+action)
		var histErr *dataset.HistoryError
		if errors.As(err, &histErr) {
			s.log.With("action", action).Error(err, "dataset saved without a history revision")
			err = nil
		}
	}

	s.metrics.ObserveMutation(action, err)
	entry := journal.Entry{
		Action:        action,
		SamplesBefore: before,
		Duration:      elapsed,
	}
	if err != nil {
		entry.Status = journal.StatusRejected
		entry.Error = errorDetail(err)
		s.record(entry)
		s.log.With("action", action).Error(err, "dataset change rejected")
		return err
	}

	s.current = ds
	s.action = ""
	s.metrics.ObserveTransform(action, elapsed, nil)
	entry.Status = journal.StatusApplied
	entry.SamplesAfter = len(ds.Samples)
	entry.Revision = revision
	s.record(entry)
	s.log.WithFields(map[string]any{
		"action":  action,
		"before":  before,
		"after":   len(ds.Samples),
		"commit":  revision,
		"elapsed": elapsed.String(),
	}).Info("dataset changed")
	return nil
}

// Fail records that action could not compute a dataset.
func (s *Session) Fail(action string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := s.elapsed()
	s.action = ""
	s.metrics.ObserveTransform(action, elapsed, err)
	s.record(journal.Entry{
		Action:        action,
		Status:        journal.StatusFailed,
		SamplesBefore: len(s.current.Samples),
		Duration:      elapsed,
		Error:         errorDetail(err),
	})
	s.log.With("action", action).Error(err, "transform failed")
}

// Runs returns the journal entries of this dataset, newest first.
func (s *Session) Runs() []journal.Entry {
	if s.journal == nil {
		return nil
	}
	return s.journal.Entries(s.id)
}

// Revisions returns the git history of the dataset file, newest first.
func (s *Session) Revisions(limit int) ([]dataset.Revision, error) {
	h := s.store.History()
	if h == nil {
		return nil, nil
	}
	return h.Log(s.store.Path(), limit)
}

func (s *Session) elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return s.now().Sub(s.started)
}

// record must be called with mu held.
func (s *Session) record(e journal.Entry) {
	if s.journal == nil {
		return
	}
	e.DatasetID = s.id
	e.DatasetPath = s.store.Path()
	e.CompletedAt = s.now().UTC()
	if _, err := s.journal.Record(e); err != nil {
		s.log.Error(err, "failed to record journal entry")
	}
}

func errorDetail(err error) *journal.ErrorDetail {
	if err == nil {
		return nil
	}
	detail := &journal.ErrorDetail{Code: "TRANSFORM_FAILED", Message: err.Error()}

	var (
		validationErr *dsxerrors.ValidationError
		pluginErr     *dsxerrors.PluginError
		parseErr      *dsxerrors.ParseError
	)
	switch {
	case errors.As(err, &validationErr):
		detail.Code = "INVALID_DATASET"
		detail.Suggestion = "Check the dataset produced by the transform"
	case errors.As(err, &pluginErr):
		detail.Code = "PLUGIN_FAILED"
		detail.Suggestion = "Run the plugin command by hand with the dataset on stdin"
	case errors.As(err, &parseErr):
		detail.Code = "PARSE_FAILED"
	}
	return detail
}
