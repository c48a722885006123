package service

import (
	"context"

	"github.com/iliyamo/concert-reservation/internal/model"
)

// Reporter computes catalog-wide totals for administrative consumers.
// The reserve and cancel figures are raw ledger counts, deliberately
// not net active reservations; a reserve that was later cancelled
// still counts once in each column.  Reads take no locks and may see a
// snapshot slightly behind concurrent writers.
type Reporter struct {
	concerts ConcertStore
	actions  ActionStore
}

// NewReporter constructs a reporter over the given stores.
func NewReporter(concerts ConcertStore, actions ActionStore) *Reporter {
	if concerts == nil || actions == nil {
		panic("nil store passed to NewReporter")
	}
	return &Reporter{concerts: concerts, actions: actions}
}

// Totals sums catalog capacity and counts ledger actions by kind.
// Empty catalog and ledger yield zeroes, never an error.
func (r *Reporter) Totals(ctx context.Context) (model.Totals, error) {
	seats, err := r.concerts.SumCapacity(ctx)
	if err != nil {
		return model.Totals{}, err
	}
	reserved, err := r.actions.CountByKind(ctx, model.ActionReserve)
	if err != nil {
		return model.Totals{}, err
	}
	cancelled, err := r.actions.CountByKind(ctx, model.ActionCancel)
	if err != nil {
		return model.Totals{}, err
	}
	return model.Totals{
		TotalSeats:     seats,
		TotalReserved:  reserved,
		TotalCancelled: cancelled,
	}, nil
}
