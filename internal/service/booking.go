package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/iliyamo/concert-reservation/internal/model"
	"github.com/iliyamo/concert-reservation/internal/repository"
)

// Booking is the write path of the reservation core.  The state of a
// (user, concert) pair is never stored; it is derived from the most
// recent ledger action each time, so every reserve or cancel is a
// read-derive-append sequence.  A per-pair mutex keeps that sequence
// atomic against a concurrent request for the same pair: two
// simultaneous reserves cannot both observe "not reserved" and both
// append.  Requests for different pairs do not contend.
type Booking struct {
	concerts ConcertStore
	actions  ActionStore

	// enforceCapacity rejects reserves once a concert's active
	// reservations reach its capacity.  The system this replaces
	// allowed overbooking; the check is a hardening addition and can
	// be switched off to reproduce the old behavior.
	enforceCapacity bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBooking constructs the booking coordinator.  Both stores must be
// non-nil.
func NewBooking(concerts ConcertStore, actions ActionStore, enforceCapacity bool) *Booking {
	if concerts == nil || actions == nil {
		panic("nil store passed to NewBooking")
	}
	return &Booking{
		concerts:        concerts,
		actions:         actions,
		enforceCapacity: enforceCapacity,
		locks:           make(map[string]*sync.Mutex),
	}
}

// Reserve validates and appends a RESERVE action for the acting user.
// It fails with repository.ErrConcertNotFound when the concert does
// not exist, ErrAlreadyReserved when the derived state is already
// RESERVED, and ErrConcertFull when the capacity check trips.  On
// success the stored action is returned for event publishing.
func (s *Booking) Reserve(ctx context.Context, username string, concertID uint64) (*model.ReservationAction, error) {
	unlock := s.lock(username, concertID)
	defer unlock()

	concert, err := s.concerts.GetByID(ctx, concertID)
	if err != nil {
		if errors.Is(err, repository.ErrConcertNotFound) {
			return nil, err
		}
		return nil, s.internal("reserve: load concert", err)
	}

	kind, ok, err := s.actions.LatestFor(ctx, username, concertID)
	if err != nil {
		return nil, s.internal("reserve: derive state", err)
	}
	if ok && kind == model.ActionReserve {
		return nil, ErrAlreadyReserved
	}

	if s.enforceCapacity {
		// The pair lock does not serialize reserves by different users
		// for the same concert, so the count-then-append below needs the
		// concert-wide lock to keep the seat count honest.  Held until
		// the append lands.
		unlockConcert := s.lockKey(concertKey(concertID))
		defer unlockConcert()

		active, err := s.actions.CountActiveByConcert(ctx, concertID)
		if err != nil {
			return nil, s.internal("reserve: count active", err)
		}
		if active >= int64(concert.Capacity) {
			return nil, ErrConcertFull
		}
	}

	action := &model.ReservationAction{
		ConcertID: &concert.ID,
		Username:  username,
		Kind:      model.ActionReserve,
	}
	if err := s.actions.Append(ctx, action); err != nil {
		return nil, s.internal("reserve: append", err)
	}
	return action, nil
}

// Cancel appends a CANCEL action for the acting user.  It fails with
// ErrReservationNotFound when the derived state for the pair is not
// RESERVED.  The earlier RESERVE row is left in place; the ledger only
// ever grows on this path, which is what keeps the admin history and
// the raw aggregate counts trustworthy.
func (s *Booking) Cancel(ctx context.Context, username string, concertID uint64) (*model.ReservationAction, error) {
	unlock := s.lock(username, concertID)
	defer unlock()

	kind, ok, err := s.actions.LatestFor(ctx, username, concertID)
	if err != nil {
		return nil, s.internal("cancel: derive state", err)
	}
	if !ok || kind != model.ActionReserve {
		return nil, ErrReservationNotFound
	}

	action := &model.ReservationAction{
		ConcertID: &concertID,
		Username:  username,
		Kind:      model.ActionCancel,
	}
	if err := s.actions.Append(ctx, action); err != nil {
		return nil, s.internal("cancel: append", err)
	}
	return action, nil
}

// UndoAction removes a single ledger row by id.  This is the explicit
// cancel-undo escape hatch for administrators, not part of the normal
// booking flow.  It is idempotent and returns the affected count.
func (s *Booking) UndoAction(ctx context.Context, id uint64) (int64, error) {
	affected, err := s.actions.DeleteByID(ctx, id)
	if err != nil {
		return 0, s.internal("undo action", err)
	}
	return affected, nil
}

// lock acquires the mutex for one (user, concert) pair and returns the
// release function.
func (s *Booking) lock(username string, concertID uint64) func() {
	return s.lockKey(fmt.Sprintf("%s|%d", username, concertID))
}

// concertKey names the concert-wide lock.  Pair keys always contain a
// '|' separator, so a key without one cannot collide with any pair.
func concertKey(concertID uint64) string {
	return fmt.Sprintf("concert:%d", concertID)
}

// lockKey acquires the named mutex and returns the release function.
// Mutexes are created lazily and kept for the life of the process; the
// table is bounded by the number of distinct keys seen, which tracks
// the catalog and user population.  Lock ordering is fixed (pair lock
// before concert lock, concert lock only inside Reserve), so the two
// levels cannot deadlock.
func (s *Booking) lockKey(key string) func() {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// internal logs the storage cause and returns the generic error exposed
// to callers.
func (s *Booking) internal(op string, err error) error {
	log.Printf("booking: %s: %v", op, err)
	return ErrInternal
}
