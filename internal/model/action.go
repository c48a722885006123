package model

import "time"

// ActionKind enumerates the two kinds of ledger entries.
type ActionKind string

const (
	ActionReserve ActionKind = "RESERVE"
	ActionCancel  ActionKind = "CANCEL"
)

// ReservationAction is one row of the append-only reservation ledger.
// Rows are never mutated after insert; reservation status is derived by
// folding a user's actions in (CreatedAt, ID) order, the ID breaking
// ties when the clock is too coarse to separate two appends.
//
// Fields:
//  ID        – primary key identifier, assigned on append.
//  ConcertID – referenced concert; nil once the concert is deleted
//              (the row stays behind for audit and aggregates).
//  Username  – acting user.
//  Kind      – RESERVE or CANCEL.
//  CreatedAt – append timestamp in UTC.
type ReservationAction struct {
	ID        uint64     // reservation_actions.id
	ConcertID *uint64    // reservation_actions.concert_id (nullable)
	Username  string     // reservation_actions.username
	Kind      ActionKind // reservation_actions.kind
	CreatedAt time.Time  // reservation_actions.created_at
}

// HistoryEntry is a ledger row enriched with the concert name for the
// admin history listing.  ConcertName is nil when the concert has been
// deleted since the action was recorded.
type HistoryEntry struct {
	ID          uint64    `json:"id"`
	ConcertID   *uint64   `json:"concert_id"`
	ConcertName *string   `json:"concert_name"`
	Username    string    `json:"username"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}
