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

// SessionHandler serves the conversation API.
type SessionHandler struct {
	chat       *service.ChatService
	escalation *service.EscalationService
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(chat *service.ChatService, escalation *service.EscalationService) *SessionHandler {
	return &SessionHandler{chat: chat, escalation: escalation}
}

// Create handles POST /api/v1/sessions. The widget calls it on open: it
// resumes the latest active session or starts a fresh one with the greeting.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.chat.ResumeSession(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Get handles GET /api/v1/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.chat.GetSession(ctx, middleware.GetUserID(ctx), middleware.IsAdmin(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SendMessage handles POST /api/v1/sessions/{id}/messages: one conversation
// turn.
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" && req.Attachment == nil {
		writeError(w, errs.Validation("text", "must not be empty"))
		return
	}

	session, err := h.chat.SendMessage(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type escalateRequest struct {
	Summary    string            `json:"summary"`
	Attachment *model.Attachment `json:"attachment,omitempty"`
}

// Escalate handles POST /api/v1/sessions/{id}/escalate.
func (h *SessionHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	var req escalateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ticket, err := h.escalation.Escalate(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Summary, req.Attachment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

// Close handles POST /api/v1/sessions/{id}/close.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.chat.CloseSession(ctx, middleware.GetUserID(ctx), middleware.IsAdmin(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
