package artist

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// ErrNotFound means the artist id does not resolve to a record.
var ErrNotFound = errors.New("artist not found")

// ErrValidation means the input failed field constraints before any store
// interaction was attempted.
var ErrValidation = errors.New("validation failed")

type DBLayer interface {
	GetArtistByID(id int64) (*models.Artist, error)
	ListArtists() ([]models.Artist, error)
	SearchArtists(term string) ([]models.Artist, error)
	CreateArtist(artist *models.Artist) error
	UpdateArtist(artist models.Artist) error
	DeleteArtist(id int64) error
	CountUpcomingShows(artistIDs []int64, now time.Time) (map[int64]int, error)
	ListShowsForArtist(artistID int64) ([]models.ArtistShowInfo, error)
}

type Publisher interface {
	PublishArtistCreated(a models.Artist) error
	PublishArtistUpdated(a models.Artist) error
	PublishArtistDeleted(a models.Artist) error
}

type ArtistService struct {
	DB     DBLayer
	Events Publisher
	Logger *logger.Logger
}

func NewArtistService(db DBLayer, events Publisher, log *logger.Logger) *ArtistService {
	return &ArtistService{DB: db, Events: events, Logger: log}
}

// ---------------- READS ----------------

// ListArtists returns the flat id/name listing, ordered by name.
func (s *ArtistService) ListArtists() ([]models.ArtistRef, error) {
	artists, err := s.DB.ListArtists()
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}

	refs := make([]models.ArtistRef, 0, len(artists))
	for _, a := range artists {
		refs = append(refs, models.ArtistRef{ID: a.ID, Name: a.Name})
	}
	return refs, nil
}

// SearchArtists returns every artist whose name, city or state contains the
// term as a case-insensitive substring.
func (s *ArtistService) SearchArtists(term string) (*models.SearchResults, error) {
	artists, err := s.DB.SearchArtists(term)
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}

	ids := make([]int64, len(artists))
	for i, a := range artists {
		ids[i] = a.ID
	}
	counts, err := s.DB.CountUpcomingShows(ids, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming shows: %w", err)
	}

	results := &models.SearchResults{
		Count: len(artists),
		Data:  make([]models.Summary, 0, len(artists)),
	}
	for _, a := range artists {
		results.Data = append(results.Data, models.Summary{
			ID:               a.ID,
			Name:             a.Name,
			NumUpcomingShows: counts[a.ID],
		})
	}
	return results, nil
}

// GetArtist builds the artist detail view with its shows partitioned into
// past and upcoming.
func (s *ArtistService) GetArtist(id int64) (*models.ArtistDetail, error) {
	artist, err := s.DB.GetArtistByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch artist %d: %w", id, err)
	}

	shows, err := s.DB.ListShowsForArtist(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows for artist %d: %w", id, err)
	}

	past, upcoming := partitionArtistShows(shows, time.Now())
	return &models.ArtistDetail{
		Artist:             *artist,
		Genres:             models.SplitGenres(artist.Genres),
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

// partitionArtistShows splits shows strictly around now. A show starting at
// the exact instant falls into neither bucket.
func partitionArtistShows(shows []models.ArtistShowInfo, now time.Time) (past, upcoming []models.VenueShowView) {
	past = []models.VenueShowView{}
	upcoming = []models.VenueShowView{}
	for _, show := range shows {
		view := models.VenueShowView{
			VenueID:        show.VenueID,
			VenueName:      show.VenueName,
			VenueImageLink: show.VenueImageLink,
			StartTime:      show.StartTime.Format(models.StartTimeFormat),
		}
		switch {
		case show.StartTime.Before(now):
			past = append(past, view)
		case show.StartTime.After(now):
			upcoming = append(upcoming, view)
		}
	}
	return past, upcoming
}

// ---------------- MUTATIONS ----------------

func (s *ArtistService) CreateArtist(form models.ArtistForm) (*models.Artist, error) {
	if err := validateArtistForm(form); err != nil {
		s.logError(fmt.Sprintf("Artist validation failed: %v", err))
		return nil, err
	}

	artist := &models.Artist{
		Name:               form.Name,
		City:               form.City,
		State:              form.State,
		Phone:              form.Phone,
		ImageLink:          form.ImageLink,
		FacebookLink:       form.FacebookLink,
		Website:            form.Website,
		SeekingVenue:       form.SeekingVenue,
		SeekingDescription: form.SeekingDescription,
		Genres:             models.JoinGenres(form.Genres),
		CreatedAt:          time.Now(),
	}
	if err := s.DB.CreateArtist(artist); err != nil {
		s.logError(fmt.Sprintf("Failed to create artist %q: %v", form.Name, err))
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishArtistCreated(*artist); err != nil {
			s.logError(fmt.Sprintf("Kafka publish error (artist created): %v", err))
		}
	}
	return artist, nil
}

func (s *ArtistService) UpdateArtist(id int64, form models.ArtistForm) (*models.Artist, error) {
	if err := validateArtistForm(form); err != nil {
		s.logError(fmt.Sprintf("Artist validation failed: %v", err))
		return nil, err
	}

	artist, err := s.DB.GetArtistByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch artist %d: %w", id, err)
	}

	artist.Name = form.Name
	artist.City = form.City
	artist.State = form.State
	artist.Phone = form.Phone
	artist.ImageLink = form.ImageLink
	artist.FacebookLink = form.FacebookLink
	artist.Website = form.Website
	artist.SeekingVenue = form.SeekingVenue
	artist.SeekingDescription = form.SeekingDescription
	artist.Genres = models.JoinGenres(form.Genres)

	if err := s.DB.UpdateArtist(*artist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logError(fmt.Sprintf("Failed to update artist %d: %v", id, err))
		return nil, fmt.Errorf("failed to update artist: %w", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishArtistUpdated(*artist); err != nil {
			s.logError(fmt.Sprintf("Kafka publish error (artist updated): %v", err))
		}
	}
	return artist, nil
}

// DeleteArtist removes the artist and, by cascade, every show it booked.
func (s *ArtistService) DeleteArtist(id int64) (*models.Artist, error) {
	artist, err := s.DB.GetArtistByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch artist %d: %w", id, err)
	}

	if err := s.DB.DeleteArtist(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logError(fmt.Sprintf("Failed to delete artist %d: %v", id, err))
		return nil, fmt.Errorf("failed to delete artist: %w", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishArtistDeleted(*artist); err != nil {
			s.logError(fmt.Sprintf("Kafka publish error (artist deleted): %v", err))
		}
	}
	return artist, nil
}

// validateArtistForm mirrors the venue rules plus a mandatory genre list;
// the artists table declares genres NOT NULL.
func validateArtistForm(form models.ArtistForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(form.City) == "" {
		return fmt.Errorf("%w: city is required", ErrValidation)
	}
	if strings.TrimSpace(form.State) == "" {
		return fmt.Errorf("%w: state is required", ErrValidation)
	}
	if len(form.Genres) == 0 {
		return fmt.Errorf("%w: at least one genre is required", ErrValidation)
	}
	for _, genre := range form.Genres {
		if models.GenreContainsDelimiter(genre) {
			return fmt.Errorf("%w: genre %q must not contain a comma", ErrValidation, genre)
		}
	}
	return nil
}

func (s *ArtistService) logError(message string) {
	if s.Logger != nil {
		s.Logger.Error("ARTIST", message)
	}
}
