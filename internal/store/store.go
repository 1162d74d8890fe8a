// Package store persists test definitions keyed by id. It backs the CRUD
// surface only; the execution engine takes definitions by value and never
// touches the store.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/restprobe/restprobe/internal/models"
)

// StoredTest wraps a definition with the metadata the store owns.
type StoredTest struct {
	models.TestDefinition
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
	Enabled   bool      `json:"enabled"`
}

// Filter narrows List results.
type Filter struct {
	Tags        []string // match any
	EnabledOnly bool
}

// Store is an in-memory test collection with JSON file persistence. One
// instance per running process; safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	path  string
	tests map[string]StoredTest
	log   *logrus.Logger
}

// Open loads the store from path, starting empty when the file does not
// exist yet. An empty path keeps the store purely in memory.
func Open(path string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	s := &Store{
		path:  path,
		tests: make(map[string]StoredTest),
		log:   log,
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if err := json.Unmarshal(data, &s.tests); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	log.WithFields(logrus.Fields{"path": path, "tests": len(s.tests)}).Debug("store loaded")
	return s, nil
}

// Create validates and stores a new definition, assigning id and metadata.
func (s *Store) Create(def models.TestDefinition) (StoredTest, error) {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return StoredTest{}, err
	}

	now := time.Now().UTC()
	stored := StoredTest{
		TestDefinition: def,
		ID:             uuid.NewString(),
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
		Enabled:        true,
	}

	s.mu.Lock()
	s.tests[stored.ID] = stored
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return StoredTest{}, err
	}
	s.log.WithFields(logrus.Fields{"id": stored.ID, "name": stored.Name}).Debug("test created")
	return stored, nil
}

// Get returns a test by id.
func (s *Store) Get(id string) (StoredTest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tests[id]
	return t, ok
}

// List returns matching tests, newest first.
func (s *Store) List(filter Filter) []StoredTest {
	s.mu.RLock()
	out := make([]StoredTest, 0, len(s.tests))
	for _, t := range s.tests {
		if filter.EnabledOnly && !t.Enabled {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(t.Tags, filter.Tags) {
			continue
		}
		out = append(out, t)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Definitions returns just the definitions of matching tests, for handing
// to the orchestrator.
func (s *Store) Definitions(filter Filter) []models.TestDefinition {
	stored := s.List(filter)
	defs := make([]models.TestDefinition, 0, len(stored))
	for _, t := range stored {
		defs = append(defs, t.TestDefinition)
	}
	return defs
}

// Update replaces a test's definition, bumping version and timestamp.
func (s *Store) Update(id string, def models.TestDefinition) (StoredTest, error) {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return StoredTest{}, err
	}

	s.mu.Lock()
	current, ok := s.tests[id]
	if !ok {
		s.mu.Unlock()
		return StoredTest{}, fmt.Errorf("test not found: %s", id)
	}
	current.TestDefinition = def
	current.UpdatedAt = time.Now().UTC()
	current.Version++
	s.tests[id] = current
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return StoredTest{}, err
	}
	return current, nil
}

// SetEnabled toggles a test without touching its definition.
func (s *Store) SetEnabled(id string, enabled bool) error {
	s.mu.Lock()
	current, ok := s.tests[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("test not found: %s", id)
	}
	current.Enabled = enabled
	current.UpdatedAt = time.Now().UTC()
	s.tests[id] = current
	s.mu.Unlock()
	return s.save()
}

// Delete removes a test, reporting whether it existed.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	_, ok := s.tests[id]
	delete(s.tests, id)
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, s.save()
}

// Len returns the number of stored tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tests)
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	data, err := json.MarshalIndent(s.tests, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}
