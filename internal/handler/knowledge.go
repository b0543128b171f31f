package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/service"
)

// KnowledgeHandler serves the knowledge-base admin API. Listing is open to any
// authenticated caller (the widget renders quick questions from it); mutations
// are admin only and guarded at the route level.
type KnowledgeHandler struct {
	knowledge *service.KnowledgeService
}

// NewKnowledgeHandler creates a knowledge handler.
func NewKnowledgeHandler(knowledge *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

// List handles GET /api/v1/knowledge.
func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.knowledge.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Get handles GET /api/v1/knowledge/{id}.
func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.knowledge.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Add handles POST /api/v1/knowledge.
func (h *KnowledgeHandler) Add(w http.ResponseWriter, r *http.Request) {
	var entry model.KnowledgeEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, err)
		return
	}

	added, err := h.knowledge.Add(r.Context(), &entry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// Update handles PATCH /api/v1/knowledge/{id}.
func (h *KnowledgeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.KnowledgeEntryPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.knowledge.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Remove handles DELETE /api/v1/knowledge/{id}.
func (h *KnowledgeHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.knowledge.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
