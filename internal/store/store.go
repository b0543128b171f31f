// Package store persists the platform's collections. Interfaces here are the
// seams the services depend on; the gorm implementations live alongside them.
package store

import (
	"context"
	"time"

	"github.com/scootcare/support-platform/internal/model"
)

// KnowledgeStore holds the curated question/resolution entries.
type KnowledgeStore interface {
	// List returns all entries ordered for display (position, then creation).
	List(ctx context.Context) ([]model.KnowledgeEntry, error)
	Get(ctx context.Context, id string) (*model.KnowledgeEntry, error)
	Add(ctx context.Context, entry *model.KnowledgeEntry) error
	Update(ctx context.Context, id string, patch model.KnowledgeEntryPatch) (*model.KnowledgeEntry, error)
	Remove(ctx context.Context, id string) error
}

// SessionStore persists chat sessions with their message logs.
type SessionStore interface {
	Create(ctx context.Context, s *model.ChatSession) error
	Get(ctx context.Context, id string) (*model.ChatSession, error)
	// LatestActive returns the owner's most recent active, unexpired session,
	// or ErrNotFound.
	LatestActive(ctx context.Context, ownerID string, now time.Time) (*model.ChatSession, error)
	// Save writes the session's log and status, asserting that the stored row
	// still carries expectedVersion. On success the session's Version is
	// incremented; on a lost race it fails with ErrVersionConflict.
	Save(ctx context.Context, s *model.ChatSession, expectedVersion int64) error
}

// TicketStore persists escalated support tickets.
type TicketStore interface {
	Create(ctx context.Context, t *model.SupportTicket) error
	Get(ctx context.Context, id string) (*model.SupportTicket, error)
	// OpenBySession returns the open ticket referencing the session, or
	// ErrNotFound. Used as the escalation idempotency guard.
	OpenBySession(ctx context.Context, sessionID string) (*model.SupportTicket, error)
	// List returns tickets newest first. ownerID and status filter when
	// non-empty.
	List(ctx context.Context, ownerID string, status model.TicketStatus) ([]model.SupportTicket, error)
	UpdateStatus(ctx context.Context, id string, status model.TicketStatus) (*model.SupportTicket, error)
}

// OrderStore reads scooter orders for the order-status resolver.
type OrderStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Order, error)
	// LatestByOwner returns the owner's most recent order, or ErrNotFound.
	LatestByOwner(ctx context.Context, ownerID string) (*model.Order, error)
}

// UserStore persists accounts.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}
