// Package service provides business logic for the support platform.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/matcher"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/nats"
	"github.com/scootcare/support-platform/internal/responder"
	"github.com/scootcare/support-platform/internal/store"
	"github.com/scootcare/support-platform/pkg/logger"
	"github.com/scootcare/support-platform/pkg/metrics"
)

// ChatService owns session lifecycle and the conversation turn pipeline:
// user text -> matcher -> responder -> reply appended to the session.
type ChatService struct {
	sessions   store.SessionStore
	knowledge  store.KnowledgeStore
	dispatcher *responder.Dispatcher
	publisher  nats.SessionPublisher
	logger     *logger.Logger
	sessionTTL time.Duration
}

// NewChatService creates a chat service.
func NewChatService(
	sessions store.SessionStore,
	knowledge store.KnowledgeStore,
	dispatcher *responder.Dispatcher,
	publisher nats.SessionPublisher,
	log *logger.Logger,
	sessionTTL time.Duration,
) *ChatService {
	return &ChatService{
		sessions:   sessions,
		knowledge:  knowledge,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     log,
		sessionTTL: sessionTTL,
	}
}

// StartSession opens a new session for the owner with the greeting already
// appended.
func (s *ChatService) StartSession(ctx context.Context, ownerID string) (*model.ChatSession, error) {
	now := time.Now()
	session := &model.ChatSession{
		ID:      uuid.Must(uuid.NewV7()).String(),
		OwnerID: ownerID,
		Messages: []model.Message{{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Role:      model.RoleBot,
			Text:      responder.Greeting,
			Kind:      model.MessageKindText,
			CreatedAt: now,
		}},
		Status:    model.SessionActive,
		Version:   1,
		StartedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionsActive.Inc()
	metrics.MessagesTotal.WithLabelValues(string(model.RoleBot)).Inc()
	s.publish(ctx, session)

	s.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.String("owner_id", ownerID),
	)
	return session, nil
}

// ResumeSession returns the owner's most recent active, unexpired session, or
// starts a fresh one.
func (s *ChatService) ResumeSession(ctx context.Context, ownerID string) (*model.ChatSession, error) {
	session, err := s.sessions.LatestActive(ctx, ownerID, time.Now())
	if errors.Is(err, errs.ErrNotFound) {
		return s.StartSession(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession loads a session. Non-admin callers only see their own sessions;
// a foreign session reads as ErrNotFound rather than leaking existence.
func (s *ChatService) GetSession(ctx context.Context, callerID string, isAdmin bool, sessionID string) (*model.ChatSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && session.OwnerID != callerID {
		return nil, errs.ErrNotFound
	}
	return session, nil
}

// SendMessage runs one conversation turn for the session owner. The user
// message and the bot reply are appended together; the append never partially
// applies.
func (s *ChatService) SendMessage(ctx context.Context, ownerID, sessionID string, req *model.SendMessageRequest) (*model.ChatSession, error) {
	session, err := s.GetSession(ctx, ownerID, false, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := buildMessage(model.RoleUser, req)
	botMsg := s.respond(ctx, ownerID, userMsg)

	if err := s.appendAndSave(ctx, session, userMsg, botMsg); err != nil {
		return nil, err
	}

	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()
	metrics.MessagesTotal.WithLabelValues(string(model.RoleBot)).Inc()
	s.publish(ctx, session)

	return session, nil
}

// AppendThreadMessage appends a message authored by the customer or a support
// agent to an escalated session's ticket thread. No bot turn runs.
func (s *ChatService) AppendThreadMessage(ctx context.Context, sessionID string, role model.Role, req *model.SendMessageRequest) (*model.ChatSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	msg := buildMessage(role, req)
	if err := s.appendAndSave(ctx, session, msg); err != nil {
		return nil, err
	}

	metrics.MessagesTotal.WithLabelValues(string(role)).Inc()
	s.publish(ctx, session)

	return session, nil
}

// CloseSession resolves the session; afterwards it is read-only.
func (s *ChatService) CloseSession(ctx context.Context, callerID string, isAdmin bool, sessionID string) (*model.ChatSession, error) {
	session, err := s.GetSession(ctx, callerID, isAdmin, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != model.SessionResolved {
		expected := session.Version
		session.Close()
		if err := s.sessions.Save(ctx, session, expected); err != nil {
			return nil, err
		}
		metrics.SessionsActive.Dec()
		s.publish(ctx, session)
	}

	return session, nil
}

// respond produces the bot message for one turn. A bare file upload is
// acknowledged without consulting the knowledge base.
func (s *ChatService) respond(ctx context.Context, ownerID string, userMsg model.Message) model.Message {
	var text string
	var outcome responder.Outcome

	if userMsg.Kind == model.MessageKindFileUpload {
		text, outcome = responder.FileUploadAck, responder.OutcomeStatic
	} else {
		entries, err := s.knowledge.List(ctx)
		if err != nil {
			// Recognition is impossible without the knowledge base; degrade
			// rather than claim the question was unmatched.
			s.logger.Error("knowledge base unavailable", zap.Error(err))
			entries = nil
			text, outcome = responder.DegradedLookup, responder.OutcomeDegraded
		}
		if text == "" {
			match := matcher.Match(userMsg.Text, entries)
			text, outcome = s.dispatcher.Reply(ctx, match, ownerID)
		}
	}

	metrics.RecordMatch(string(outcome))

	return model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      model.RoleBot,
		Text:      text,
		Kind:      model.MessageKindText,
		CreatedAt: time.Now(),
	}
}

// appendAndSave appends msgs and persists under the optimistic version check,
// retrying once on a lost race with a fresh copy of the log.
func (s *ChatService) appendAndSave(ctx context.Context, session *model.ChatSession, msgs ...model.Message) error {
	expected := session.Version
	if err := session.Append(msgs...); err != nil {
		return err
	}

	err := s.sessions.Save(ctx, session, expected)
	if !errors.Is(err, errs.ErrVersionConflict) {
		return err
	}

	fresh, getErr := s.sessions.Get(ctx, session.ID)
	if getErr != nil {
		return getErr
	}
	if err := fresh.Append(msgs...); err != nil {
		return err
	}
	if err := s.sessions.Save(ctx, fresh, fresh.Version); err != nil {
		return err
	}
	*session = *fresh
	return nil
}

func (s *ChatService) publish(ctx context.Context, session *model.ChatSession) {
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
		// Realtime fan-out is best effort; the append already persisted.
		s.logger.Warn("failed to publish session update",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}
}

func buildMessage(role model.Role, req *model.SendMessageRequest) model.Message {
	kind := model.MessageKindText
	if req.Attachment != nil && strings.TrimSpace(req.Text) == "" {
		kind = model.MessageKindFileUpload
	}
	return model.Message{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Role:       role,
		Text:       req.Text,
		Kind:       kind,
		Attachment: req.Attachment,
		CreatedAt:  time.Now(),
	}
}
