// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// ReservationRecordedEvent is published after a reserve or cancel
// action has been appended to the ledger.  It carries enough context
// for downstream consumers to log or notify without querying the
// primary database.
type ReservationRecordedEvent struct {
	ActionID    uint64 `json:"action_id"`
	ConcertID   uint64 `json:"concert_id"`
	ConcertName string `json:"concert_name"`
	Username    string `json:"username"`
	Action      string `json:"action"`
	RecordedAt  string `json:"recorded_at"`
}
