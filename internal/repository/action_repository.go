package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/concert-reservation/internal/model"
)

// ActionRepo provides access to the reservation_actions ledger.  The
// ledger is append-and-read only: rows are never updated, and the only
// deletion path is the explicit admin cancel-undo.  Business rules such
// as "no duplicate active reservation" are not enforced here; the
// booking service validates before it appends.
//
// The total order of the ledger is (created_at, id) ascending.  MySQL
// DATETIME is coarse enough that two appends can share a timestamp, so
// every query that cares about recency orders by both columns.
type ActionRepo struct {
	db *sql.DB
}

// NewActionRepo returns a new ActionRepo bound to the given database.
func NewActionRepo(db *sql.DB) *ActionRepo { return &ActionRepo{db: db} }

// Append inserts a ledger row and populates the generated ID and
// CreatedAt on the provided record.  It never rejects on business
// grounds.
func (r *ActionRepo) Append(ctx context.Context, a *model.ReservationAction) error {
	const q = `INSERT INTO reservation_actions (concert_id, username, kind) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.ConcertID, a.Username, string(a.Kind))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const sel = `SELECT created_at FROM reservation_actions WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, a.ID).Scan(&a.CreatedAt)
}

// DeleteByID removes a single ledger row.  This exists only for the
// admin cancel-undo operation; the regular cancel path appends an
// offsetting CANCEL action instead.  Deleting a missing id is not an
// error; the returned count is 0 or 1.
func (r *ActionRepo) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	const q = `DELETE FROM reservation_actions WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListAll returns the whole ledger newest-first, each row enriched with
// the concert name.  The LEFT JOIN keeps rows whose concert has been
// deleted; their concert fields come back as nil.
func (r *ActionRepo) ListAll(ctx context.Context) ([]model.HistoryEntry, error) {
	return r.listHistory(ctx, "")
}

// ListByUser returns one user's ledger rows newest-first, with the same
// concert name enrichment as ListAll.
func (r *ActionRepo) ListByUser(ctx context.Context, username string) ([]model.HistoryEntry, error) {
	return r.listHistory(ctx, "WHERE a.username = ?", username)
}

// ListByConcert returns the ledger rows for one concert newest-first.
func (r *ActionRepo) ListByConcert(ctx context.Context, concertID uint64) ([]model.HistoryEntry, error) {
	return r.listHistory(ctx, "WHERE a.concert_id = ?", concertID)
}

func (r *ActionRepo) listHistory(ctx context.Context, where string, args ...any) ([]model.HistoryEntry, error) {
	q := `SELECT a.id, a.concert_id, c.name, a.username, a.kind, a.created_at
	      FROM reservation_actions a
	      LEFT JOIN concerts c ON c.id = a.concert_id `
	q += where
	q += ` ORDER BY a.created_at DESC, a.id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var e model.HistoryEntry
		var concertID sql.NullInt64
		var concertName sql.NullString
		if err := rows.Scan(&e.ID, &concertID, &concertName, &e.Username, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		if concertID.Valid {
			cid := uint64(concertID.Int64)
			e.ConcertID = &cid
		}
		if concertName.Valid {
			cn := concertName.String
			e.ConcertName = &cn
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// LatestKindByUser folds the user's ledger into a map from concert id
// to the kind of the most recent action for that concert.  The query
// streams in ledger order and later rows overwrite earlier ones, which
// keeps the "last action wins" rule in application logic instead of a
// storage-engine-specific window function.  Rows whose concert was
// deleted are skipped.
func (r *ActionRepo) LatestKindByUser(ctx context.Context, username string) (map[uint64]model.ActionKind, error) {
	const q = `SELECT concert_id, kind FROM reservation_actions
	           WHERE username = ? AND concert_id IS NOT NULL
	           ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	latest := make(map[uint64]model.ActionKind)
	for rows.Next() {
		var concertID uint64
		var kind string
		if err := rows.Scan(&concertID, &kind); err != nil {
			return nil, err
		}
		latest[concertID] = model.ActionKind(kind)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return latest, nil
}

// LatestFor returns the kind of the most recent action for one
// (user, concert) pair.  The boolean is false when the pair has no
// ledger rows at all, which is a valid state and not an error.
func (r *ActionRepo) LatestFor(ctx context.Context, username string, concertID uint64) (model.ActionKind, bool, error) {
	const q = `SELECT kind FROM reservation_actions
	           WHERE username = ? AND concert_id = ?
	           ORDER BY created_at DESC, id DESC
	           LIMIT 1`
	var kind string
	err := r.db.QueryRowContext(ctx, q, username, concertID).Scan(&kind)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return model.ActionKind(kind), true, nil
}

// CountByKind counts ledger rows of one kind across all users and
// concerts, including rows whose concert has been deleted.  These are
// raw historical counts, not net active reservations.
func (r *ActionRepo) CountByKind(ctx context.Context, kind model.ActionKind) (int64, error) {
	const q = `SELECT COUNT(*) FROM reservation_actions WHERE kind = ?`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, string(kind)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountActiveByConcert returns how many users currently hold an active
// reservation for the concert, i.e. how many distinct usernames whose
// most recent action for it is RESERVE.  Used by the optional capacity
// check in the booking service.
func (r *ActionRepo) CountActiveByConcert(ctx context.Context, concertID uint64) (int64, error) {
	const q = `SELECT username, kind FROM reservation_actions
	           WHERE concert_id = ?
	           ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, concertID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	latest := make(map[string]model.ActionKind)
	for rows.Next() {
		var username, kind string
		if err := rows.Scan(&username, &kind); err != nil {
			return 0, err
		}
		latest[username] = model.ActionKind(kind)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	var active int64
	for _, kind := range latest {
		if kind == model.ActionReserve {
			active++
		}
	}
	return active, nil
}
