package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/concert-reservation/internal/model"
)

// ConcertRepo provides persistence for the concert catalog.  Concerts
// carry only static data (name, detail, capacity); reservation state
// lives in the action ledger and is never written back onto these
// rows.  All timestamps are stored in UTC.
type ConcertRepo struct {
	db *sql.DB
}

// NewConcertRepo returns a new ConcertRepo bound to the given database.
func NewConcertRepo(db *sql.DB) *ConcertRepo { return &ConcertRepo{db: db} }

// DB exposes the underlying handle for callers that need to open a
// transaction spanning more than one repository.
func (r *ConcertRepo) DB() *sql.DB { return r.db }

// List returns every concert in the catalog ordered by id ascending.
// An empty catalog yields an empty slice, not an error.
func (r *ConcertRepo) List(ctx context.Context) ([]model.Concert, error) {
	const q = `SELECT id, name, detail, capacity, created_at FROM concerts ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	concerts := make([]model.Concert, 0)
	for rows.Next() {
		var c model.Concert
		if err := rows.Scan(&c.ID, &c.Name, &c.Detail, &c.Capacity, &c.CreatedAt); err != nil {
			return nil, err
		}
		concerts = append(concerts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return concerts, nil
}

// GetByID returns a single concert.  When the id does not exist,
// ErrConcertNotFound is returned.
func (r *ConcertRepo) GetByID(ctx context.Context, id uint64) (model.Concert, error) {
	const q = `SELECT id, name, detail, capacity, created_at FROM concerts WHERE id = ?`
	var c model.Concert
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Detail, &c.Capacity, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Concert{}, ErrConcertNotFound
	}
	if err != nil {
		return model.Concert{}, err
	}
	return c, nil
}

// Create inserts a new concert and populates the generated ID and
// CreatedAt on the provided record.  The unique index on name maps
// MySQL duplicate-key failures (1062) to ErrConcertExists.
func (r *ConcertRepo) Create(ctx context.Context, c *model.Concert) error {
	const q = `INSERT INTO concerts (name, detail, capacity) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Detail, c.Capacity)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConcertExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	// Query back the row to pick up the database-assigned timestamp.
	const sel = `SELECT created_at FROM concerts WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, c.ID).Scan(&c.CreatedAt)
}

// Delete removes a concert and clears the back-reference on any ledger
// rows pointing at it.  The ledger rows themselves stay behind so that
// history and aggregate counts survive catalog edits.  Deleting an id
// that does not exist is not an error; the returned count is 0 or 1.
func (r *ConcertRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const orphan = `UPDATE reservation_actions SET concert_id = NULL WHERE concert_id = ?`
	if _, err := tx.ExecContext(ctx, orphan, id); err != nil {
		return 0, err
	}
	const del = `DELETE FROM concerts WHERE id = ?`
	res, err := tx.ExecContext(ctx, del, id)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return affected, nil
}

// SumCapacity returns the total number of sellable seats across the
// catalog.  An empty catalog sums to 0.
func (r *ConcertRepo) SumCapacity(ctx context.Context) (int64, error) {
	const q = `SELECT COALESCE(SUM(capacity), 0) FROM concerts`
	var total int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
