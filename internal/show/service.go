package show

import (
	"database/sql"
	"errors"
	"fmt"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	showdb "ms-booking/internal/show/db"
)

// ErrNotFound means the show id does not resolve to a booking.
var ErrNotFound = errors.New("show not found")

// ErrValidation means the booking input failed field constraints.
var ErrValidation = errors.New("validation failed")

// ErrInvalidReference means the booking names an artist or venue that does
// not exist. The store rejects these atomically, so nothing is written.
var ErrInvalidReference = errors.New("invalid booking reference")

type DBLayer interface {
	ListShows() ([]models.ShowInfo, error)
	CreateShow(show *models.Show) error
	DeleteShow(id int64) error
}

type Publisher interface {
	PublishShowCreated(s models.Show) error
	PublishShowDeleted(s models.Show) error
}

type ShowService struct {
	DB     DBLayer
	Events Publisher
	Logger *logger.Logger
}

func NewShowService(db DBLayer, events Publisher, log *logger.Logger) *ShowService {
	return &ShowService{DB: db, Events: events, Logger: log}
}

// ---------------- READS ----------------

// ListShows returns every booking with both sides joined in, ordered by
// start time.
func (s *ShowService) ListShows() ([]models.ShowView, error) {
	shows, err := s.DB.ListShows()
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}

	views := make([]models.ShowView, 0, len(shows))
	for _, show := range shows {
		views = append(views, models.ShowView{
			VenueID:         show.VenueID,
			VenueName:       show.VenueName,
			ArtistID:        show.ArtistID,
			ArtistName:      show.ArtistName,
			ArtistImageLink: show.ArtistImageLink,
			StartTime:       show.StartTime.Format(models.StartTimeFormat),
		})
	}
	return views, nil
}

// ---------------- MUTATIONS ----------------

func (s *ShowService) CreateShow(form models.ShowForm) (*models.Show, error) {
	if err := validateShowForm(form); err != nil {
		s.logError(fmt.Sprintf("Show validation failed: %v", err))
		return nil, err
	}

	show := &models.Show{
		ArtistID:  form.ArtistID,
		VenueID:   form.VenueID,
		StartTime: form.StartTime,
	}
	if err := s.DB.CreateShow(show); err != nil {
		if errors.Is(err, showdb.ErrArtistNotFound) || errors.Is(err, showdb.ErrVenueNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		s.logError(fmt.Sprintf("Failed to create show: %v", err))
		return nil, fmt.Errorf("failed to create show: %w", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishShowCreated(*show); err != nil {
			s.logError(fmt.Sprintf("Kafka publish error (show created): %v", err))
		}
	}
	return show, nil
}

func (s *ShowService) DeleteShow(id int64) error {
	if err := s.DB.DeleteShow(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		s.logError(fmt.Sprintf("Failed to delete show %d: %v", id, err))
		return fmt.Errorf("failed to delete show: %w", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishShowDeleted(models.Show{ID: id}); err != nil {
			s.logError(fmt.Sprintf("Kafka publish error (show deleted): %v", err))
		}
	}
	return nil
}

func validateShowForm(form models.ShowForm) error {
	if form.ArtistID <= 0 {
		return fmt.Errorf("%w: artist_id is required", ErrValidation)
	}
	if form.VenueID <= 0 {
		return fmt.Errorf("%w: venue_id is required", ErrValidation)
	}
	if form.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", ErrValidation)
	}
	return nil
}

func (s *ShowService) logError(message string) {
	if s.Logger != nil {
		s.Logger.Error("SHOW", message)
	}
}
