// Package service holds the reservation core: the booking coordinator,
// the derived-state resolver, the catalog admin operations and the
// aggregation reporter.  Services talk to storage through the narrow
// store interfaces below, implemented by the repository package in
// production and by in-memory fakes in tests.
package service

import (
	"context"

	"github.com/iliyamo/concert-reservation/internal/model"
)

// ConcertStore is the slice of the catalog the services depend on.
type ConcertStore interface {
	List(ctx context.Context) ([]model.Concert, error)
	GetByID(ctx context.Context, id uint64) (model.Concert, error)
	Create(ctx context.Context, c *model.Concert) error
	Delete(ctx context.Context, id uint64) (int64, error)
	SumCapacity(ctx context.Context) (int64, error)
}

// ActionStore is the slice of the reservation ledger the services
// depend on.  Append assigns the id and timestamp; it never rejects on
// business grounds, which is the booking coordinator's job.
type ActionStore interface {
	Append(ctx context.Context, a *model.ReservationAction) error
	DeleteByID(ctx context.Context, id uint64) (int64, error)
	ListAll(ctx context.Context) ([]model.HistoryEntry, error)
	ListByUser(ctx context.Context, username string) ([]model.HistoryEntry, error)
	ListByConcert(ctx context.Context, concertID uint64) ([]model.HistoryEntry, error)
	LatestKindByUser(ctx context.Context, username string) (map[uint64]model.ActionKind, error)
	LatestFor(ctx context.Context, username string, concertID uint64) (model.ActionKind, bool, error)
	CountByKind(ctx context.Context, kind model.ActionKind) (int64, error)
	CountActiveByConcert(ctx context.Context, concertID uint64) (int64, error)
}
