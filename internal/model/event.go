package model

import "time"

// SessionUpdateEvent is published whenever a session's log or status changes.
// It carries the full message list: observers replace their local view rather
// than merging deltas, so a dropped event cannot cause divergence.
type SessionUpdateEvent struct {
	SessionID string        `json:"session_id"`
	OwnerID   string        `json:"owner_id"`
	Status    SessionStatus `json:"status"`
	Messages  []Message     `json:"messages"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Sequence is populated from the stream on read.
	Sequence uint64 `json:"sequence,omitempty"`
}
