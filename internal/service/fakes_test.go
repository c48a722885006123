package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/concert-reservation/internal/model"
	"github.com/iliyamo/concert-reservation/internal/repository"
)

// In-memory store fakes.  They mirror the repository contracts closely
// enough for the services to be exercised without a database, including
// the ledger's (created_at, id) ordering.

type memConcerts struct {
	mu     sync.Mutex
	nextID uint64
	items  []model.Concert
	err    error // when set, every call fails with it
}

func newMemConcerts(concerts ...model.Concert) *memConcerts {
	s := &memConcerts{nextID: 1}
	for _, c := range concerts {
		c.ID = s.nextID
		s.nextID++
		s.items = append(s.items, c)
	}
	return s
}

func (s *memConcerts) List(context.Context) ([]model.Concert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.Concert, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memConcerts) GetByID(_ context.Context, id uint64) (model.Concert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.Concert{}, s.err
	}
	for _, c := range s.items {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Concert{}, repository.ErrConcertNotFound
}

func (s *memConcerts) Create(_ context.Context, c *model.Concert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, have := range s.items {
		if have.Name == c.Name {
			return repository.ErrConcertExists
		}
	}
	c.ID = s.nextID
	s.nextID++
	c.CreatedAt = time.Now()
	s.items = append(s.items, *c)
	return nil
}

func (s *memConcerts) Delete(_ context.Context, id uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	for i, c := range s.items {
		if c.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memConcerts) SumCapacity(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	var sum int64
	for _, c := range s.items {
		sum += int64(c.Capacity)
	}
	return sum, nil
}

type memActions struct {
	mu     sync.Mutex
	nextID uint64
	rows   []model.ReservationAction
	err    error
}

func newMemActions() *memActions { return &memActions{nextID: 1} }

func (s *memActions) Append(_ context.Context, a *model.ReservationAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	a.ID = s.nextID
	s.nextID++
	a.CreatedAt = time.Now()
	s.rows = append(s.rows, *a)
	return nil
}

func (s *memActions) DeleteByID(_ context.Context, id uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memActions) ListAll(context.Context) ([]model.HistoryEntry, error) {
	return s.list(func(model.ReservationAction) bool { return true })
}

func (s *memActions) ListByUser(_ context.Context, username string) ([]model.HistoryEntry, error) {
	return s.list(func(r model.ReservationAction) bool { return r.Username == username })
}

func (s *memActions) ListByConcert(_ context.Context, concertID uint64) ([]model.HistoryEntry, error) {
	return s.list(func(r model.ReservationAction) bool {
		return r.ConcertID != nil && *r.ConcertID == concertID
	})
}

func (s *memActions) list(keep func(model.ReservationAction) bool) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.HistoryEntry, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		r := s.rows[i]
		if !keep(r) {
			continue
		}
		out = append(out, model.HistoryEntry{
			ID:        r.ID,
			ConcertID: r.ConcertID,
			Username:  r.Username,
			Action:    string(r.Kind),
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *memActions) LatestKindByUser(_ context.Context, username string) (map[uint64]model.ActionKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	latest := make(map[uint64]model.ActionKind)
	for _, r := range s.rows { // rows are already in append order
		if r.Username == username && r.ConcertID != nil {
			latest[*r.ConcertID] = r.Kind
		}
	}
	return latest, nil
}

func (s *memActions) LatestFor(_ context.Context, username string, concertID uint64) (model.ActionKind, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	for i := len(s.rows) - 1; i >= 0; i-- {
		r := s.rows[i]
		if r.Username == username && r.ConcertID != nil && *r.ConcertID == concertID {
			return r.Kind, true, nil
		}
	}
	return "", false, nil
}

func (s *memActions) CountByKind(_ context.Context, kind model.ActionKind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for _, r := range s.rows {
		if r.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (s *memActions) CountActiveByConcert(_ context.Context, concertID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	latest := make(map[string]model.ActionKind)
	for _, r := range s.rows {
		if r.ConcertID != nil && *r.ConcertID == concertID {
			latest[r.Username] = r.Kind
		}
	}
	var n int64
	for _, kind := range latest {
		if kind == model.ActionReserve {
			n++
		}
	}
	return n, nil
}

var errStorage = errors.New("storage exploded")
