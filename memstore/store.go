// Package memstore provides an ephemeral, thread-safe, in-memory
// implementation of studyplan.Store.
//
// It is meant for tests, local development and the HTTP server when no
// database is configured. Nothing survives a restart.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meikuraledutech/studyplan"
)

// Store keeps catalogues and schedules in maps guarded by a single RWMutex.
type Store struct {
	mu         sync.RWMutex
	catalogues map[string]*studyplan.Catalogue
	schedules  map[string]*studyplan.Schedule
	now        func() time.Time
}

var _ studyplan.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		catalogues: make(map[string]*studyplan.Catalogue),
		schedules:  make(map[string]*studyplan.Schedule),
		now:        time.Now,
	}
}

// CreateSchema is a no-op; the maps always exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	return nil
}

// DropSchema discards every catalogue and schedule.
func (s *Store) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.catalogues)
	clear(s.schedules)
	return nil
}

// SaveCatalogue stores a copy of c, replacing any catalogue with the same ID
// and discarding its schedule. An empty ID gets a UUID.
// Malformed records are rejected; cycles are not.
func (s *Store) SaveCatalogue(ctx context.Context, c *studyplan.Catalogue) (*studyplan.Catalogue, error) {
	if _, err := c.Graph(); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogues[c.ID] = c.Clone()
	delete(s.schedules, c.ID)
	return c, nil
}

// GetCatalogue returns nil, nil if the catalogue does not exist.
func (s *Store) GetCatalogue(ctx context.Context, catalogueID string) (*studyplan.Catalogue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.catalogues[catalogueID]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

// ListCatalogues returns the stored IDs, sorted. Never nil.
func (s *Store) ListCatalogues(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.catalogues))
	for id := range s.catalogues {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// DeleteCatalogue removes a catalogue and its schedule.
// No error if the catalogue doesn't exist.
func (s *Store) DeleteCatalogue(ctx context.Context, catalogueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.catalogues, catalogueID)
	delete(s.schedules, catalogueID)
	return nil
}

// AddPrerequisite records that module requires prerequisite. The change is
// rejected with a *studyplan.CycleDetectedError if it leaves more modules
// unscheduled than before.
func (s *Store) AddPrerequisite(ctx context.Context, catalogueID, module, prerequisite string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.catalogues[catalogueID]
	if !ok {
		return studyplan.ErrCatalogueNotFound
	}

	next, err := c.WithPrerequisite(module, prerequisite)
	if err != nil {
		return err
	}

	s.catalogues[catalogueID] = next
	delete(s.schedules, catalogueID)
	return nil
}

// RemovePrerequisite drops prerequisite from every record of module.
func (s *Store) RemovePrerequisite(ctx context.Context, catalogueID, module, prerequisite string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.catalogues[catalogueID]
	if !ok {
		return studyplan.ErrCatalogueNotFound
	}
	for i := range c.Records {
		if c.Records[i].Name != module {
			continue
		}
		c.Records[i].Prerequisites = slices.DeleteFunc(c.Records[i].Prerequisites, func(p string) bool {
			return p == prerequisite
		})
	}
	delete(s.schedules, catalogueID)
	return nil
}

// SaveSchedule stores a copy of sched for the catalogue. A zero CreatedAt is
// set to the current time.
func (s *Store) SaveSchedule(ctx context.Context, catalogueID string, sched *studyplan.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogues[catalogueID]; !ok {
		return studyplan.ErrCatalogueNotFound
	}
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	}
	s.schedules[catalogueID] = sched.Clone()
	return nil
}

// GetSchedule returns nil, nil if no schedule is stored.
func (s *Store) GetSchedule(ctx context.Context, catalogueID string) (*studyplan.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.schedules[catalogueID]
	if !ok {
		return nil, nil
	}
	return sched.Clone(), nil
}
