package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/iliyamo/concert-reservation/internal/model"
	"github.com/iliyamo/concert-reservation/internal/repository"
)

// Catalog carries the administrative operations on the concert
// catalog.  Input validation happens here so the repository stays a
// plain storage adapter; uniqueness of the name is enforced by the
// store and surfaces as repository.ErrConcertExists.
type Catalog struct {
	concerts ConcertStore
}

// NewCatalog constructs the catalog service.
func NewCatalog(concerts ConcertStore) *Catalog {
	if concerts == nil {
		panic("nil store passed to NewCatalog")
	}
	return &Catalog{concerts: concerts}
}

// List returns all concerts, unfiltered.
func (s *Catalog) List(ctx context.Context) ([]model.Concert, error) {
	concerts, err := s.concerts.List(ctx)
	if err != nil {
		return nil, s.internal("list", err)
	}
	return concerts, nil
}

// Create validates and persists a new concert.  The capacity is taken
// as given; no seat counter is initialised because reserved seats are
// always derived from the ledger.  Fails with a ValidationError on
// malformed input and repository.ErrConcertExists on a duplicate name.
func (s *Catalog) Create(ctx context.Context, name, detail string, capacity int) (*model.Concert, error) {
	name = strings.TrimSpace(name)
	detail = strings.TrimSpace(detail)
	if name == "" {
		return nil, &ValidationError{Msg: "name is required"}
	}
	if detail == "" {
		return nil, &ValidationError{Msg: "detail is required"}
	}
	if capacity < 1 {
		return nil, &ValidationError{Msg: "capacity must be at least 1"}
	}
	concert := &model.Concert{
		Name:     name,
		Detail:   detail,
		Capacity: uint32(capacity),
	}
	if err := s.concerts.Create(ctx, concert); err != nil {
		if errors.Is(err, repository.ErrConcertExists) {
			return nil, err
		}
		return nil, s.internal("create", err)
	}
	return concert, nil
}

// Delete removes a concert and returns the number of catalog rows
// affected (0 or 1).  Missing ids are not an error; the operation is
// idempotent.  Ledger rows referencing the concert keep their history
// with the back-reference cleared.
func (s *Catalog) Delete(ctx context.Context, id uint64) (int64, error) {
	affected, err := s.concerts.Delete(ctx, id)
	if err != nil {
		return 0, s.internal("delete", err)
	}
	return affected, nil
}

func (s *Catalog) internal(op string, err error) error {
	log.Printf("catalog: %s: %v", op, err)
	return ErrInternal
}
