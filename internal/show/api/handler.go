package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/notification"
	"ms-booking/internal/show"
)

type Handler struct {
	ShowService *show.ShowService
	Flashes     *notification.Store
	Logger      *logger.Logger
}

func NewHandler(service *show.ShowService, flashes *notification.Store, log *logger.Logger) *Handler {
	return &Handler{ShowService: service, Flashes: flashes, Logger: log}
}

// RegisterRoutes registers the show routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/shows", func(r chi.Router) {
		r.Get("/", h.ListShows)
		r.Post("/", h.CreateShow)
		r.Delete("/{showId}", h.DeleteShow)
	})
}

func (h *Handler) ListShows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.ShowService.ListShows()
	if err != nil {
		h.logAPI("ERROR", fmt.Sprintf("Failed to list shows: %v", err))
		http.Error(w, "Could not list shows", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shows)
}

func (h *Handler) CreateShow(w http.ResponseWriter, r *http.Request) {
	var form models.ShowForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.ShowService.CreateShow(form)
	if err != nil {
		switch {
		case errors.Is(err, show.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, show.ErrInvalidReference):
			h.flash(r.Context(), notification.ClientID(w, r), notification.LevelError,
				"An error occurred. Show could not be listed.")
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logAPI("ERROR", fmt.Sprintf("Failed to create show: %v", err))
			h.flash(r.Context(), notification.ClientID(w, r), notification.LevelError,
				"An error occurred. Show could not be listed.")
			http.Error(w, "Could not create show", http.StatusInternalServerError)
		}
		return
	}

	h.flash(r.Context(), notification.ClientID(w, r), notification.LevelSuccess,
		"Show was successfully listed!")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) DeleteShow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "showId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid show id", http.StatusBadRequest)
		return
	}

	if err := h.ShowService.DeleteShow(id); err != nil {
		if errors.Is(err, show.ErrNotFound) {
			http.Error(w, "Show not found", http.StatusNotFound)
			return
		}
		h.logAPI("ERROR", fmt.Sprintf("Failed to delete show %d: %v", id, err))
		http.Error(w, "Could not delete show", http.StatusInternalServerError)
		return
	}

	h.flash(r.Context(), notification.ClientID(w, r), notification.LevelSuccess,
		"Show was successfully deleted!")

	w.WriteHeader(http.StatusNoContent)
}

// flash failures never fail the request; they are logged and dropped.
func (h *Handler) flash(ctx context.Context, clientID, level, message string) {
	if h.Flashes == nil {
		return
	}
	if err := h.Flashes.Push(ctx, clientID, notification.Flash{Level: level, Message: message}); err != nil {
		h.logAPI("WARN", fmt.Sprintf("Failed to push flash for %s: %v", clientID, err))
	}
}

func (h *Handler) logAPI(level, message string) {
	if h.Logger == nil {
		return
	}
	switch level {
	case "ERROR":
		h.Logger.Error("API", message)
	case "WARN":
		h.Logger.Warn("API", message)
	default:
		h.Logger.Info("API", message)
	}
}
