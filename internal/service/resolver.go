package service

import (
	"context"

	"github.com/iliyamo/concert-reservation/internal/model"
)

// Resolver derives per-user reservation state from the ledger.  It is
// a pure read: absence of data is a valid false result, never an
// error.  Listings fold the user's whole ledger once instead of
// issuing one recency query per concert.
type Resolver struct {
	concerts ConcertStore
	actions  ActionStore
}

// NewResolver constructs a resolver over the given stores.
func NewResolver(concerts ConcertStore, actions ActionStore) *Resolver {
	if concerts == nil || actions == nil {
		panic("nil store passed to NewResolver")
	}
	return &Resolver{concerts: concerts, actions: actions}
}

// ConcertViews returns every concert in the catalog with IsReserved
// computed for the acting user.  A concert with no actions for the
// user resolves to false.
func (r *Resolver) ConcertViews(ctx context.Context, username string) ([]model.ConcertView, error) {
	concerts, err := r.concerts.List(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := r.actions.LatestKindByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	views := make([]model.ConcertView, 0, len(concerts))
	for _, c := range concerts {
		views = append(views, model.ConcertView{
			ID:         c.ID,
			Name:       c.Name,
			Detail:     c.Detail,
			Capacity:   c.Capacity,
			IsReserved: latest[c.ID] == model.ActionReserve,
			CreatedAt:  c.CreatedAt,
		})
	}
	return views, nil
}

// MyConcerts returns only the concerts the user currently holds an
// active reservation for.  A later CANCEL suppresses an earlier
// RESERVE, so this filters on the latest action per concert rather
// than on the mere existence of a RESERVE row.
func (r *Resolver) MyConcerts(ctx context.Context, username string) ([]model.ConcertView, error) {
	views, err := r.ConcertViews(ctx, username)
	if err != nil {
		return nil, err
	}
	mine := make([]model.ConcertView, 0)
	for _, v := range views {
		if v.IsReserved {
			mine = append(mine, v)
		}
	}
	return mine, nil
}

// IsReserved reports whether the user's most recent ledger action for
// the concert is RESERVE.
func (r *Resolver) IsReserved(ctx context.Context, username string, concertID uint64) (bool, error) {
	kind, ok, err := r.actions.LatestFor(ctx, username, concertID)
	if err != nil {
		return false, err
	}
	return ok && kind == model.ActionReserve, nil
}
