package venue

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// ErrNotFound means the venue id does not resolve to a record. It must be
// checked before any field access; the store fetch is never assumed to
// succeed.
var ErrNotFound = errors.New("venue not found")

// ErrValidation means the input failed field constraints before any store
// interaction was attempted.
var ErrValidation = errors.New("validation failed")

type DBLayer interface {
	GetVenueByID(id int64) (*models.Venue, error)
	ListVenues() ([]models.Venue, error)
	SearchVenues(term string) ([]models.Venue, error)
	CreateVenue(venue *models.Venue) error
	UpdateVenue(venue models.Venue) error
	DeleteVenue(id int64) error
	CountUpcomingShows(venueIDs []int64, now time.Time) (map[int64]int, error)
	ListShowsForVenue(venueID int64) ([]models.VenueShowInfo, error)
}

type Publisher interface {
	PublishVenueCreated(v models.Venue) error
	PublishVenueUpdated(v models.Venue) error
	PublishVenueDeleted(v models.Venue) error
}

type VenueService struct {
	DB     DBLayer
	Events Publisher
	Logger *logger.Logger
}

func NewVenueService(db DBLayer, events Publisher, log *logger.Logger) *VenueService {
	return &VenueService{DB: db, Events: events, Logger: log}
}

// ---------------- READS ----------------

// ListVenueAreas groups every venue by its distinct (city, state) pair and
// counts each venue's upcoming shows. Groups arrive ordered by state then
// city, venues within a group by name.
func (s *VenueService) ListVenueAreas() ([]models.VenueArea, error) {
	venues, err := s.DB.ListVenues()
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	ids := make([]int64, len(venues))
	for i, v := range venues {
		ids[i] = v.ID
	}
	counts, err := s.DB.CountUpcomingShows(ids, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming shows: %w", err)
	}

	areas := []models.VenueArea{}
	for _, v := range venues {
		if len(areas) == 0 || areas[len(areas)-1].City != v.City || areas[len(areas)-1].State != v.State {
			areas = append(areas, models.VenueArea{City: v.City, State: v.State})
		}
		area := &areas[len(areas)-1]
		area.Venues = append(area.Venues, models.Summary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: counts[v.ID],
		})
	}
	return areas, nil
}

// SearchVenues returns every venue whose name, city or state contains the
// term as a case-insensitive substring.
func (s *VenueService) SearchVenues(term string) (*models.SearchResults, error) {
	venues, err := s.DB.SearchVenues(term)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}

	ids := make([]int64, len(venues))
	for i, v := range venues {
		ids[i] = v.ID
	}
	counts, err := s.DB.CountUpcomingShows(ids, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming shows: %w", err)
	}

	results := &models.SearchResults{
		Count: len(venues),
		Data:  make([]models.Summary, 0, len(venues)),
	}
	for _, v := range venues {
		results.Data = append(results.Data, models.Summary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: counts[v.ID],
		})
	}
	return results, nil
}

// GetVenue builds the venue detail view: entity fields, split genres, and
// the venue's shows partitioned into past and upcoming.
func (s *VenueService) GetVenue(id int64) (*models.VenueDetail, error) {
	venue, err := s.DB.GetVenueByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch venue %d: %w", id, err)
	}

	shows, err := s.DB.ListShowsForVenue(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows for venue %d: %w", id, err)
	}

	past, upcoming := partitionVenueShows(shows, time.Now())
	return &models.VenueDetail{
		Venue:              *venue,
		Genres:             models.SplitGenres(venue.Genres),
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

// partitionVenueShows splits shows strictly around now. A show starting at
// the exact instant falls into neither bucket.
func partitionVenueShows(shows []models.VenueShowInfo, now time.Time) (past, upcoming []models.ArtistShowView) {
	past = []models.ArtistShowView{}
	upcoming = []models.ArtistShowView{}
	for _, show := range shows {
		view := models.ArtistShowView{
			ArtistID:        show.ArtistID,
			ArtistName:      show.ArtistName,
			ArtistImageLink: show.ArtistImageLink,
			StartTime:       show.StartTime.Format(models.StartTimeFormat),
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

func (s *VenueService) CreateVenue(form models.VenueForm) (*models.Venue, error) {
	if err := validateVenueForm(form); err != nil {
		s.logError(fmt.Sprintf("Venue validation failed: %v", err))
		return nil, err
	}

	venue := &models.Venue{
		Name:               form.Name,
		City:               form.City,
		State:              form.State,
		Address:            form.Address,
		Phone:              form.Phone,
		ImageLink:          form.ImageLink,
		FacebookLink:       form.FacebookLink,
		Website:            form.Website,
		SeekingTalent:      form.SeekingTalent,
		SeekingDescription: form.SeekingDescription,
		Genres:             models.JoinGenres(form.Genres),
		CreatedAt:          time.Now(),
	}
	if err := s.DB.CreateVenue(venue); err != nil {
		s.logError(fmt.Sprintf("Failed to create venue %q: %v", form.Name, err))
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishVenueCreated(*venue); err != nil {
			s.logError(fmt.Sprintf("Kafka publish error (venue created): %v", err))
		}
	}
	return venue, nil
}

func (s *VenueService) UpdateVenue(id int64, form models.VenueForm) (*models.Venue, error) {
	if err := validateVenueForm(form); err != nil {
		s.logError(fmt.Sprintf("Venue validation failed: %v", err))
		return nil, err
	}

	venue, err := s.DB.GetVenueByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch venue %d: %w", id, err)
	}

	venue.Name = form.Name
	venue.City = form.City
	venue.State = form.State
	venue.Address = form.Address
	venue.Phone = form.Phone
	venue.ImageLink = form.ImageLink
	venue.FacebookLink = form.FacebookLink
	venue.Website = form.Website
	venue.SeekingTalent = form.SeekingTalent
	venue.SeekingDescription = form.SeekingDescription
	venue.Genres = models.JoinGenres(form.Genres)

	if err := s.DB.UpdateVenue(*venue); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logError(fmt.Sprintf("Failed to update venue %d: %v", id, err))
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishVenueUpdated(*venue); err != nil {
			s.logError(fmt.Sprintf("Kafka publish error (venue updated): %v", err))
		}
	}
	return venue, nil
}

// DeleteVenue removes the venue and, by cascade, every show booked at it.
// The venue is fetched first so the caller gets its name back for the
// notification even though the record is gone.
func (s *VenueService) DeleteVenue(id int64) (*models.Venue, error) {
	venue, err := s.DB.GetVenueByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch venue %d: %w", id, err)
	}

	if err := s.DB.DeleteVenue(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logError(fmt.Sprintf("Failed to delete venue %d: %v", id, err))
		return nil, fmt.Errorf("failed to delete venue: %w", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishVenueDeleted(*venue); err != nil {
			s.logError(fmt.Sprintf("Kafka publish error (venue deleted): %v", err))
		}
	}
	return venue, nil
}

func validateVenueForm(form models.VenueForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(form.City) == "" {
		return fmt.Errorf("%w: city is required", ErrValidation)
	}
	if strings.TrimSpace(form.State) == "" {
		return fmt.Errorf("%w: state is required", ErrValidation)
	}
	for _, genre := range form.Genres {
		if models.GenreContainsDelimiter(genre) {
			return fmt.Errorf("%w: genre %q must not contain a comma", ErrValidation, genre)
		}
	}
	return nil
}

func (s *VenueService) logError(message string) {
	if s.Logger != nil {
		s.Logger.Error("VENUE", message)
	}
}
