package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/nats"
	"github.com/scootcare/support-platform/internal/responder"
	"github.com/scootcare/support-platform/internal/store"
	"github.com/scootcare/support-platform/pkg/logger"
	"github.com/scootcare/support-platform/pkg/metrics"
)

// EscalationService converts a conversation into a persisted support ticket.
// Marking the session escalated and persisting the ticket are treated as one
// failure-atomic step: a session is never left escalated without a ticket.
type EscalationService struct {
	sessions  store.SessionStore
	tickets   store.TicketStore
	publisher nats.SessionPublisher
	logger    *logger.Logger
}

// NewEscalationService creates an escalation service.
func NewEscalationService(
	sessions store.SessionStore,
	tickets store.TicketStore,
	publisher nats.SessionPublisher,
	log *logger.Logger,
) *EscalationService {
	return &EscalationService{
		sessions:  sessions,
		tickets:   tickets,
		publisher: publisher,
		logger:    log,
	}
}

// Escalate creates a ticket for the owner's session. Idempotent per session:
// a retried call while an open ticket already references the session returns
// that ticket instead of creating a duplicate.
func (s *EscalationService) Escalate(ctx context.Context, ownerID, sessionID, summary string, attachment *model.Attachment) (*model.SupportTicket, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, errs.Validation("summary", "must not be empty")
	}

	// Referential validity: the ticket may only reference a session that
	// exists now.
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, errs.ErrNotFound
	}

	if existing, err := s.tickets.OpenBySession(ctx, sessionID); err == nil {
		return existing, nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	prevStatus := session.Status
	prevLen := len(session.Messages)
	expected := session.Version

	if err := session.Escalate(); err != nil {
		return nil, err
	}
	notice := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      model.RoleBot,
		Text:      responder.EscalationNotice,
		Kind:      model.MessageKindText,
		CreatedAt: time.Now(),
	}
	session.Messages = append(session.Messages, notice)

	if err := s.sessions.Save(ctx, session, expected); err != nil {
		return nil, err
	}

	ticket := &model.SupportTicket{
		ID:        uuid.Must(uuid.NewV7()).String(),
		OwnerID:   ownerID,
		SessionID: &session.ID,
		Summary:   summary,
		Status:    model.TicketOpen,
		CreatedAt: time.Now(),
	}
	if attachment != nil {
		url := attachment.URL
		ticket.AttachmentURL = &url
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		// Compensate: the session must not stay escalated with no ticket.
		session.Status = prevStatus
		session.Messages = session.Messages[:prevLen]
		if revertErr := s.sessions.Save(ctx, session, session.Version); revertErr != nil {
			s.logger.Error("failed to revert session after ticket persistence failure",
				zap.String("session_id", session.ID),
				zap.Error(revertErr),
			)
		}
		return nil, err
	}

	metrics.EscalationsTotal.Inc()
	s.publishUpdate(ctx, session)

	s.logger.Info("session escalated",
		zap.String("session_id", session.ID),
		zap.String("ticket_id", ticket.ID),
	)
	return ticket, nil
}

// ListTickets returns tickets visible to the caller: admins see every ticket,
// customers only their own.
func (s *EscalationService) ListTickets(ctx context.Context, callerID string, isAdmin bool, status model.TicketStatus) ([]model.SupportTicket, error) {
	owner := callerID
	if isAdmin {
		owner = ""
	}
	return s.tickets.List(ctx, owner, status)
}

// GetTicket loads one ticket with the owner/admin visibility rule.
func (s *EscalationService) GetTicket(ctx context.Context, callerID string, isAdmin bool, ticketID string) (*model.SupportTicket, error) {
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && ticket.OwnerID != callerID {
		return nil, errs.ErrNotFound
	}
	return ticket, nil
}

// UpdateTicketStatus is the admin-only status transition. Resolving a ticket
// also resolves its session thread, making it read-only.
func (s *EscalationService) UpdateTicketStatus(ctx context.Context, ticketID string, status model.TicketStatus) (*model.SupportTicket, error) {
	if status != model.TicketOpen && status != model.TicketResolved {
		return nil, errs.Validation("status", "must be open or resolved")
	}

	ticket, err := s.tickets.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		return nil, err
	}

	if status == model.TicketResolved && ticket.SessionID != nil {
		session, err := s.sessions.Get(ctx, *ticket.SessionID)
		if err == nil && session.Status != model.SessionResolved {
			expected := session.Version
			session.Close()
			if err := s.sessions.Save(ctx, session, expected); err != nil {
				s.logger.Warn("failed to close session for resolved ticket",
					zap.String("session_id", session.ID),
					zap.Error(err),
				)
			} else {
				s.publishUpdate(ctx, session)
			}
		}
	}

	return ticket, nil
}

func (s *EscalationService) publishUpdate(ctx context.Context, session *model.ChatSession) {
	if s.publisher == nil {
		return
	}
	_, err := s.publisher.PublishSessionUpdate(ctx, &model.SessionUpdateEvent{
		SessionID: session.ID,
		OwnerID:   session.OwnerID,
		Status:    session.Status,
		Messages:  session.Messages,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to publish session update",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}
}
