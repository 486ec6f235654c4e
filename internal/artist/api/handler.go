package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/artist"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/notification"
)

type Handler struct {
	ArtistService *artist.ArtistService
	Flashes       *notification.Store
	Logger        *logger.Logger
}

func NewHandler(service *artist.ArtistService, flashes *notification.Store, log *logger.Logger) *Handler {
	return &Handler{ArtistService: service, Flashes: flashes, Logger: log}
}

// RegisterRoutes registers the artist routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/artists", func(r chi.Router) {
		r.Get("/", h.ListArtists)
		r.Post("/", h.CreateArtist)
		r.Post("/search", h.SearchArtists)
		r.Get("/{artistId}", h.GetArtist)
		r.Put("/{artistId}", h.UpdateArtist)
		r.Delete("/{artistId}", h.DeleteArtist)
	})
}

// ---------------- READS ----------------

func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	refs, err := h.ArtistService.ListArtists()
	if err != nil {
		h.logAPI("ERROR", fmt.Sprintf("Failed to list artists: %v", err))
		http.Error(w, "Could not list artists", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(refs)
}

func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SearchTerm string `json:"search_term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	results, err := h.ArtistService.SearchArtists(req.SearchTerm)
	if err != nil {
		h.logAPI("ERROR", fmt.Sprintf("Artist search failed: %v", err))
		http.Error(w, "Could not search artists", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request) {
	id, err := parseArtistID(r)
	if err != nil {
		http.Error(w, "Invalid artist id", http.StatusBadRequest)
		return
	}

	detail, err := h.ArtistService.GetArtist(id)
	if err != nil {
		if errors.Is(err, artist.ErrNotFound) {
			http.Error(w, "Artist not found", http.StatusNotFound)
			return
		}
		h.logAPI("ERROR", fmt.Sprintf("Failed to fetch artist %d: %v", id, err))
		http.Error(w, "Could not fetch artist", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// ---------------- MUTATIONS ----------------

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var form models.ArtistForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.ArtistService.CreateArtist(form)
	if err != nil {
		if errors.Is(err, artist.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logAPI("ERROR", fmt.Sprintf("Failed to create artist: %v", err))
		h.flash(r.Context(), notification.ClientID(w, r), notification.LevelError,
			"An error occurred. Artist "+form.Name+" could not be listed.")
		http.Error(w, "Could not create artist", http.StatusInternalServerError)
		return
	}

	h.flash(r.Context(), notification.ClientID(w, r), notification.LevelSuccess,
		"Artist "+created.Name+" was successfully listed!")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, err := parseArtistID(r)
	if err != nil {
		http.Error(w, "Invalid artist id", http.StatusBadRequest)
		return
	}

	var form models.ArtistForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.ArtistService.UpdateArtist(id, form)
	if err != nil {
		switch {
		case errors.Is(err, artist.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, artist.ErrNotFound):
			http.Error(w, "Artist not found", http.StatusNotFound)
		default:
			h.logAPI("ERROR", fmt.Sprintf("Failed to update artist %d: %v", id, err))
			h.flash(r.Context(), notification.ClientID(w, r), notification.LevelError,
				"An error occurred. Artist "+form.Name+" could not be updated.")
			http.Error(w, "Could not update artist", http.StatusInternalServerError)
		}
		return
	}

	h.flash(r.Context(), notification.ClientID(w, r), notification.LevelSuccess,
		"Artist "+updated.Name+" was successfully updated!")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *Handler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := parseArtistID(r)
	if err != nil {
		http.Error(w, "Invalid artist id", http.StatusBadRequest)
		return
	}

	deleted, err := h.ArtistService.DeleteArtist(id)
	if err != nil {
		if errors.Is(err, artist.ErrNotFound) {
			http.Error(w, "Artist not found", http.StatusNotFound)
			return
		}
		h.logAPI("ERROR", fmt.Sprintf("Failed to delete artist %d: %v", id, err))
		h.flash(r.Context(), notification.ClientID(w, r), notification.LevelError,
			"An error occurred. The artist could not be deleted.")
		http.Error(w, "Could not delete artist", http.StatusInternalServerError)
		return
	}

	h.flash(r.Context(), notification.ClientID(w, r), notification.LevelSuccess,
		"Artist "+deleted.Name+" was successfully deleted!")

	w.WriteHeader(http.StatusNoContent)
}

func parseArtistID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "artistId"), 10, 64)
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
