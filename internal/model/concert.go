package model

import "time"

// Concert is a catalog entry describing a bookable event.  Seats are
// tracked as a single capacity count; who currently holds a reservation
// is never stored here but derived from the action ledger.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name, unique across the catalog.
//  Detail    – free-text description.
//  Capacity  – number of sellable seats, always >= 1.
//  CreatedAt – creation timestamp in UTC.
type Concert struct {
	ID        uint64    // concerts.id
	Name      string    // concerts.name
	Detail    string    // concerts.detail
	Capacity  uint32    // concerts.capacity
	CreatedAt time.Time // concerts.created_at
}

// ConcertView is a Concert projected for a specific acting user.  The
// IsReserved flag is computed from the user's most recent ledger action
// for the concert and is never persisted.
type ConcertView struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Detail     string    `json:"detail"`
	Capacity   uint32    `json:"capacity"`
	IsReserved bool      `json:"is_reserved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Totals aggregates catalog-wide counts for the admin report.  Reserved
// and cancelled are raw action counts over the whole ledger, not the
// number of currently active reservations.
type Totals struct {
	TotalSeats     int64 `json:"total_seats"`
	TotalReserved  int64 `json:"total_reserved"`
	TotalCancelled int64 `json:"total_cancelled"`
}
