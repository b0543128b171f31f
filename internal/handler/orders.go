package handler

import (
	"net/http"

	"github.com/scootcare/support-platform/internal/middleware"
	"github.com/scootcare/support-platform/internal/store"
)

// OrderHandler lists the caller's scooter orders.
type OrderHandler struct {
	orders store.OrderStore
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(orders store.OrderStore) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}
