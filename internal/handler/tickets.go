package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/middleware"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/service"
)

// TicketHandler serves the support-ticket API. Customers see their own
// tickets; admins see and work everyone's.
type TicketHandler struct {
	escalation *service.EscalationService
	chat       *service.ChatService
}

// NewTicketHandler creates a ticket handler.
func NewTicketHandler(escalation *service.EscalationService, chat *service.ChatService) *TicketHandler {
	return &TicketHandler{escalation: escalation, chat: chat}
}

// List handles GET /api/v1/tickets?status=open.
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := model.TicketStatus(r.URL.Query().Get("status"))

	tickets, err := h.escalation.ListTickets(ctx, middleware.GetUserID(ctx), middleware.IsAdmin(ctx), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// Get handles GET /api/v1/tickets/{id}.
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticket, err := h.escalation.GetTicket(ctx, middleware.GetUserID(ctx), middleware.IsAdmin(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

type ticketStatusRequest struct {
	Status model.TicketStatus `json:"status"`
}

// UpdateStatus handles PATCH /api/v1/tickets/{id}. Admin only.
func (h *TicketHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req ticketStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ticket, err := h.escalation.UpdateTicketStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// SendMessage handles POST /api/v1/tickets/{id}/messages: a follow-up in the
// escalated thread. Admins write as the agent, the owner as themselves; no bot
// turn runs.
func (h *TicketHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" && req.Attachment == nil {
		writeError(w, errs.Validation("text", "must not be empty"))
		return
	}

	ticket, err := h.escalation.GetTicket(ctx, middleware.GetUserID(ctx), middleware.IsAdmin(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if ticket.SessionID == nil {
		writeError(w, errs.ErrNotFound)
		return
	}

	role := model.RoleUser
	if middleware.IsAdmin(ctx) {
		role = model.RoleAgent
	}

	session, err := h.chat.AppendThreadMessage(ctx, *ticket.SessionID, role, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
