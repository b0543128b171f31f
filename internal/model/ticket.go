package model

import "time"

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketResolved TicketStatus = "resolved"
)

// SupportTicket is a persisted escalation. SessionID is a weak reference to the
// originating chat session: the relation is used for lookup only, the session
// keeps its own lifecycle. A referenced session is never deleted while the
// ticket exists.
type SupportTicket struct {
	ID            string       `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID       string       `gorm:"index;not null;type:uuid" json:"owner_id"`
	SessionID     *string      `gorm:"index;type:uuid" json:"session_id,omitempty"`
	Summary       string       `gorm:"type:text;not null" json:"summary"`
	AttachmentURL *string      `gorm:"type:text" json:"attachment_url,omitempty"`
	Status        TicketStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TableName maps tickets onto the support_queries collection.
func (SupportTicket) TableName() string { return "support_queries" }
