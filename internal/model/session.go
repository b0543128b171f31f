package model

import (
	"time"

	"github.com/scootcare/support-platform/internal/errs"
)

// SessionStatus is the lifecycle state of a chat session. Transitions only move
// forward: active -> escalated -> resolved, or active -> resolved. A resolved
// session is read-only.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionEscalated SessionStatus = "escalated"
	SessionResolved  SessionStatus = "resolved"
)

// ChatSession is one user's conversation instance: an append-only ordered
// message log plus lifecycle status. The message log is the audit trail for any
// ticket escalated from it, so entries are never reordered or deleted.
type ChatSession struct {
	ID        string        `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID   string        `gorm:"index;not null;type:uuid" json:"owner_id"`
	Messages  []Message     `gorm:"column:chat_blob;serializer:json;type:jsonb" json:"messages"`
	Status    SessionStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Version   int64         `gorm:"not null;default:1" json:"-"`
	StartedAt time.Time     `json:"started_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// TableName maps the session onto the chat_sessions collection.
func (ChatSession) TableName() string { return "chat_sessions" }

// Append adds a message to the log. Fails with ErrSessionClosed once the
// session is resolved; the log is never partially applied.
func (s *ChatSession) Append(msgs ...Message) error {
	if s.Status == SessionResolved {
		return errs.ErrSessionClosed
	}
	s.Messages = append(s.Messages, msgs...)
	return nil
}

// Escalate moves an active session to escalated. Calling it on an already
// escalated session is a no-op, not an error. A resolved session cannot be
// escalated.
func (s *ChatSession) Escalate() error {
	switch s.Status {
	case SessionActive:
		s.Status = SessionEscalated
		return nil
	case SessionEscalated:
		return nil
	default:
		return errs.ErrSessionClosed
	}
}

// Close resolves the session from either active or escalated. Closing a
// resolved session is a no-op.
func (s *ChatSession) Close() {
	s.Status = SessionResolved
}

// Expired reports whether the session's retention window has passed.
func (s *ChatSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
