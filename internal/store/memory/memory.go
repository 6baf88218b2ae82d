// Package memory is the in-process appointment store used by the demo
// deployment, the seeder and the tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/model"
	"github.com/peyvandtech/darmana/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	events map[uuid.UUID]model.Event

	// Display-name catalogs, denormalized onto events at creation time.
	children   map[uuid.UUID]string
	therapists map[uuid.UUID]string
	therapies  map[uuid.UUID]string
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		events:     make(map[uuid.UUID]model.Event),
		children:   make(map[uuid.UUID]string),
		therapists: make(map[uuid.UUID]string),
		therapies:  make(map[uuid.UUID]string),
	}
}

// RegisterChild adds a child to the name catalog.
func (s *Store) RegisterChild(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[id] = name
}

// RegisterTherapist adds a therapist to the name catalog.
func (s *Store) RegisterTherapist(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.therapists[id] = name
}

// RegisterTherapy adds a therapy type to the name catalog.
func (s *Store) RegisterTherapy(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.therapies[id] = name
}

func (s *Store) ListByDate(ctx context.Context, date time.Time, f model.EventFilters) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	key := calendar.DateKey(date)
	out := make([]model.Event, 0)
	for _, ev := range s.events {
		if calendar.DateKey(ev.Date) != key {
			continue
		}
		if !f.Match(ev) {
			continue
		}
		out = append(out, ev)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) Create(ctx context.Context, spec model.Spec) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := spec.Status
	if status == "" {
		status = model.StatusScheduled
	}

	ev := model.Event{
		ID:                   uuid.New(),
		ChildID:              spec.ChildID,
		TherapistID:          spec.TherapistID,
		TherapyID:            spec.TherapyID,
		ChildName:            s.children[spec.ChildID],
		TherapistName:        s.therapists[spec.TherapistID],
		TherapyName:          s.therapies[spec.TherapyID],
		Date:                 calendar.DateOnly(spec.Date),
		StartTime:            spec.StartTime,
		EndTime:              spec.EndTime,
		Status:               status,
		Note:                 spec.Note,
		SyncExternalCalendar: spec.SyncExternalCalendar,
	}
	s.events[ev.ID] = ev
	return ev.ID, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, p model.Patch) (model.Event, error) {
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[id]
	if !ok {
		return model.Event{}, store.ErrNotFound
	}

	if p.Date != nil {
		ev.Date = calendar.DateOnly(*p.Date)
	}
	if p.StartTime != nil {
		ev.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		ev.EndTime = *p.EndTime
	}
	if p.Note != nil {
		ev.Note = *p.Note
	}

	s.events[id] = ev
	return ev, nil
}

func (s *Store) ChangeStatus(ctx context.Context, id uuid.UUID, next model.Status) (model.Event, error) {
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[id]
	if !ok {
		return model.Event{}, store.ErrNotFound
	}
	if err := model.ValidateTransition(ev.Status, next); err != nil {
		return model.Event{}, err
	}

	ev.Status = next
	s.events[id] = ev
	return ev, nil
}

// Get returns a single event by ID. Not part of the store contract; the
// seeder and tests use it.
func (s *Store) Get(id uuid.UUID) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	return ev, ok
}

// Len reports the number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
