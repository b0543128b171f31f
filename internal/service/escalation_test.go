package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/responder"
	"github.com/scootcare/support-platform/pkg/logger"
)

func newEscalationFixture(t *testing.T) (*EscalationService, *ChatService, *fakeSessionStore, *fakeTicketStore) {
	t.Helper()
	sessions := newFakeSessionStore()
	tickets := &fakeTicketStore{}
	publisher := &fakePublisher{}
	chat, _ := newChatService(sessions, &fakeKnowledgeStore{})
	esc := NewEscalationService(sessions, tickets, publisher, logger.NewNop())
	return esc, chat, sessions, tickets
}

func TestEscalateCreatesTicketAndMarksSession(t *testing.T) {
	esc, chat, sessions, _ := newEscalationFixture(t)

	session, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)

	ticket, err := esc.Escalate(context.Background(), "u1", session.ID, "Brakes squeal at low speed", nil)
	require.NoError(t, err)

	assert.Equal(t, model.TicketOpen, ticket.Status)
	assert.Equal(t, "u1", ticket.OwnerID)
	require.NotNil(t, ticket.SessionID)
	assert.Equal(t, session.ID, *ticket.SessionID)

	stored, err := sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionEscalated, stored.Status)
	last := stored.Messages[len(stored.Messages)-1]
	assert.Equal(t, model.RoleBot, last.Role)
	assert.Equal(t, responder.EscalationNotice, last.Text)
}

func TestEscalateIsIdempotentPerSession(t *testing.T) {
	esc, chat, _, tickets := newEscalationFixture(t)

	session, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)

	first, err := esc.Escalate(context.Background(), "u1", session.ID, "Brakes squeal", nil)
	require.NoError(t, err)

	second, err := esc.Escalate(context.Background(), "u1", session.ID, "Brakes squeal again", nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, tickets.tickets, 1)
}

func TestEscalateRevertsSessionWhenTicketPersistFails(t *testing.T) {
	esc, chat, sessions, tickets := newEscalationFixture(t)
	tickets.createErr = errs.Upstream("tickets", errors.New("connection refused"))

	session, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)
	before := len(session.Messages)

	_, err = esc.Escalate(context.Background(), "u1", session.ID, "Brakes squeal", nil)
	require.Error(t, err)

	// Failure atomicity: no escalated session without a ticket.
	stored, getErr := sessions.Get(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.SessionActive, stored.Status)
	assert.Len(t, stored.Messages, before)
	assert.Empty(t, tickets.tickets)
}

func TestEscalateRejectsEmptySummary(t *testing.T) {
	esc, chat, _, _ := newEscalationFixture(t)

	session, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)

	_, err = esc.Escalate(context.Background(), "u1", session.ID, "   ", nil)
	assert.True(t, errs.IsValidation(err))
}

func TestEscalateRejectsMissingSession(t *testing.T) {
	esc, _, _, _ := newEscalationFixture(t)

	_, err := esc.Escalate(context.Background(), "u1", "no-such-session", "Brakes squeal", nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEscalateRejectsForeignSession(t *testing.T) {
	esc, chat, _, _ := newEscalationFixture(t)

	session, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)

	_, err = esc.Escalate(context.Background(), "u2", session.ID, "Brakes squeal", nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEscalateRejectsResolvedSession(t *testing.T) {
	esc, chat, _, _ := newEscalationFixture(t)

	session, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)
	_, err = chat.CloseSession(context.Background(), "u1", false, session.ID)
	require.NoError(t, err)

	_, err = esc.Escalate(context.Background(), "u1", session.ID, "Brakes squeal", nil)
	assert.ErrorIs(t, err, errs.ErrSessionClosed)
}

func TestEscalateAttachesTicketAttachment(t *testing.T) {
	esc, chat, _, _ := newEscalationFixture(t)

	session, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)

	ticket, err := esc.Escalate(context.Background(), "u1", session.ID, "Scraped deck, photo attached", &model.Attachment{
		URL:  "http://localhost:8080/files/deck.jpg",
		Name: "deck.jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, ticket.AttachmentURL)
	assert.Equal(t, "http://localhost:8080/files/deck.jpg", *ticket.AttachmentURL)
}

func TestListTicketsScopesByCaller(t *testing.T) {
	esc, chat, _, _ := newEscalationFixture(t)

	s1, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)
	s2, err := chat.StartSession(context.Background(), "u2")
	require.NoError(t, err)

	_, err = esc.Escalate(context.Background(), "u1", s1.ID, "one", nil)
	require.NoError(t, err)
	_, err = esc.Escalate(context.Background(), "u2", s2.ID, "two", nil)
	require.NoError(t, err)

	mine, err := esc.ListTickets(context.Background(), "u1", false, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := esc.ListTickets(context.Background(), "admin", true, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestResolveTicketClosesSessionThread(t *testing.T) {
	esc, chat, sessions, _ := newEscalationFixture(t)

	session, err := chat.StartSession(context.Background(), "u1")
	require.NoError(t, err)
	ticket, err := esc.Escalate(context.Background(), "u1", session.ID, "Brakes squeal", nil)
	require.NoError(t, err)

	updated, err := esc.UpdateTicketStatus(context.Background(), ticket.ID, model.TicketResolved)
	require.NoError(t, err)
	assert.Equal(t, model.TicketResolved, updated.Status)

	stored, err := sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionResolved, stored.Status)
}
