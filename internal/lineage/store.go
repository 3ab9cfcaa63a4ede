// Package lineage persists an append-only audit trail of pipeline
// decisions: selected sheets, detected structure, validation issue counts.
// Events live in a single JSON file rewritten on every append; volumes are
// tiny (one event per stage per run).
package lineage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "ghgcli/internal/errors"
)

// Event is one recorded pipeline decision.
type Event struct {
	ID        string                 `json:"id"`
	Stage     string                 `json:"stage"`
	Action    string                 `json:"action"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details"`
}

// Store is an append-only JSON event log. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	path   string
	events []Event
}

// Open loads the event log at path, creating an empty one if absent.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, apperrors.NewStorageError("failed to read lineage file", err)
		}
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.events); err != nil {
			// A corrupt log is not worth failing the pipeline over;
			// start fresh and let the next save repair the file.
			s.events = nil
		}
	}
	return s, nil
}

// AddEvent appends one event and persists the log.
func (s *Store) AddEvent(stage, action string, details map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if details == nil {
		details = map[string]interface{}{}
	}
	s.events = append(s.events, Event{
		ID:        uuid.NewString(),
		Stage:     stage,
		Action:    action,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
	return s.save()
}

// Events returns a copy of all recorded events in append order.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// LatestValidation returns the most recent event with stage "validation",
// or a MissingInput error when no validation has been recorded.
func (s *Store) LatestValidation() (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Stage == "validation" {
			ev := s.events[i]
			return &ev, nil
		}
	}
	return nil, apperrors.NewMissingInputError("no validation events found in lineage log")
}

// Reset erases all events. Mostly for tests.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = nil
	return s.save()
}

// save writes the log atomically: temp file in the same directory, then
// rename over the target. Caller holds the lock (or is still single-owner).
func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError("failed to create lineage directory", err)
		}
	}

	events := s.events
	if events == nil {
		events = []Event{}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to encode lineage events", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".lineage-*")
	if err != nil {
		return apperrors.NewStorageError("failed to create temp lineage file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperrors.NewStorageError("failed to write lineage file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperrors.NewStorageError("failed to close lineage file", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return apperrors.NewStorageError("failed to replace lineage file", err)
	}
	return nil
}
