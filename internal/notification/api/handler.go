package notification_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/logger"
	"ms-booking/internal/notification"
)

type Handler struct {
	Store  *notification.Store
	Logger *logger.Logger
}

func NewHandler(store *notification.Store, log *logger.Logger) *Handler {
	return &Handler{Store: store, Logger: log}
}

// RegisterRoutes registers the notification routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/notifications", h.PopNotifications)
}

// PopNotifications drains and returns the caller's pending flashes.
func (h *Handler) PopNotifications(w http.ResponseWriter, r *http.Request) {
	clientID := notification.ClientID(w, r)

	flashes, err := h.Store.Pop(r.Context(), clientID)
	if err != nil {
		h.Logger.Error("FLASH", fmt.Sprintf("Failed to pop flashes for %s: %v", clientID, err))
		http.Error(w, "Could not read notifications", http.StatusInternalServerError)
		return
	}
	if flashes == nil {
		flashes = []notification.Flash{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(flashes)
}
