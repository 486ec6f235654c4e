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
	"ms-booking/internal/venue"
)

type Handler struct {
	VenueService *venue.VenueService
	Flashes      *notification.Store
	Logger       *logger.Logger
}

func NewHandler(service *venue.VenueService, flashes *notification.Store, log *logger.Logger) *Handler {
	return &Handler{VenueService: service, Flashes: flashes, Logger: log}
}

// RegisterRoutes registers the venue routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/venues", func(r chi.Router) {
		r.Get("/", h.ListVenues)
		r.Post("/", h.CreateVenue)
		r.Post("/search", h.SearchVenues)
		r.Get("/{venueId}", h.GetVenue)
		r.Put("/{venueId}", h.UpdateVenue)
		r.Delete("/{venueId}", h.DeleteVenue)
	})
}

// ---------------- READS ----------------

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	areas, err := h.VenueService.ListVenueAreas()
	if err != nil {
		h.logAPI("ERROR", fmt.Sprintf("Failed to list venues: %v", err))
		http.Error(w, "Could not list venues", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(areas)
}

func (h *Handler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SearchTerm string `json:"search_term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	results, err := h.VenueService.SearchVenues(req.SearchTerm)
	if err != nil {
		h.logAPI("ERROR", fmt.Sprintf("Venue search failed: %v", err))
		http.Error(w, "Could not search venues", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func (h *Handler) GetVenue(w http.ResponseWriter, r *http.Request) {
	id, err := parseVenueID(r)
	if err != nil {
		http.Error(w, "Invalid venue id", http.StatusBadRequest)
		return
	}

	detail, err := h.VenueService.GetVenue(id)
	if err != nil {
		if errors.Is(err, venue.ErrNotFound) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		h.logAPI("ERROR", fmt.Sprintf("Failed to fetch venue %d: %v", id, err))
		http.Error(w, "Could not fetch venue", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// ---------------- MUTATIONS ----------------

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var form models.VenueForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.VenueService.CreateVenue(form)
	if err != nil {
		if errors.Is(err, venue.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logAPI("ERROR", fmt.Sprintf("Failed to create venue: %v", err))
		h.flash(r.Context(), notification.ClientID(w, r), notification.LevelError,
			"An error occurred. Venue "+form.Name+" could not be listed.")
		http.Error(w, "Could not create venue", http.StatusInternalServerError)
		return
	}

	h.flash(r.Context(), notification.ClientID(w, r), notification.LevelSuccess,
		"Venue "+created.Name+" was successfully listed!")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, err := parseVenueID(r)
	if err != nil {
		http.Error(w, "Invalid venue id", http.StatusBadRequest)
		return
	}

	var form models.VenueForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.VenueService.UpdateVenue(id, form)
	if err != nil {
		switch {
		case errors.Is(err, venue.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, venue.ErrNotFound):
			http.Error(w, "Venue not found", http.StatusNotFound)
		default:
			h.logAPI("ERROR", fmt.Sprintf("Failed to update venue %d: %v", id, err))
			h.flash(r.Context(), notification.ClientID(w, r), notification.LevelError,
				"An error occurred. Venue "+form.Name+" could not be updated.")
			http.Error(w, "Could not update venue", http.StatusInternalServerError)
		}
		return
	}

	h.flash(r.Context(), notification.ClientID(w, r), notification.LevelSuccess,
		"Venue "+updated.Name+" was successfully updated!")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, err := parseVenueID(r)
	if err != nil {
		http.Error(w, "Invalid venue id", http.StatusBadRequest)
		return
	}

	deleted, err := h.VenueService.DeleteVenue(id)
	if err != nil {
		if errors.Is(err, venue.ErrNotFound) {
			http.Error(w, "Venue not found", http.StatusNotFound)
			return
		}
		h.logAPI("ERROR", fmt.Sprintf("Failed to delete venue %d: %v", id, err))
		h.flash(r.Context(), notification.ClientID(w, r), notification.LevelError,
			"An error occurred. The venue could not be deleted.")
		http.Error(w, "Could not delete venue", http.StatusInternalServerError)
		return
	}

	h.flash(r.Context(), notification.ClientID(w, r), notification.LevelSuccess,
		"Venue "+deleted.Name+" was successfully deleted!")

	w.WriteHeader(http.StatusNoContent)
}

func parseVenueID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "venueId"), 10, 64)
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
