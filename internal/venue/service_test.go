package venue_test

import (
	"database/sql"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"ms-booking/internal/models"
	"ms-booking/internal/venue"
)

// Mock implementations for testing

type MockVenueDB struct {
	venues       map[int64]*models.Venue
	shows        map[int64][]models.VenueShowInfo
	nextID       int64
	shouldFailOn string
	errorMsg     string
}

func NewMockVenueDB() *MockVenueDB {
	return &MockVenueDB{
		venues: make(map[int64]*models.Venue),
		shows:  make(map[int64][]models.VenueShowInfo),
	}
}

func (m *MockVenueDB) GetVenueByID(id int64) (*models.Venue, error) {
	if m.shouldFailOn == "GetVenueByID" {
		return nil, errors.New(m.errorMsg)
	}
	v, exists := m.venues[id]
	if !exists {
		return nil, sql.ErrNoRows
	}
	copied := *v
	return &copied, nil
}

func (m *MockVenueDB) ListVenues() ([]models.Venue, error) {
	if m.shouldFailOn == "ListVenues" {
		return nil, errors.New(m.errorMsg)
	}
	venues := make([]models.Venue, 0, len(m.venues))
	for _, v := range m.venues {
		venues = append(venues, *v)
	}
	sort.Slice(venues, func(i, j int) bool {
		if venues[i].State != venues[j].State {
			return venues[i].State < venues[j].State
		}
		if venues[i].City != venues[j].City {
			return venues[i].City < venues[j].City
		}
		return venues[i].Name < venues[j].Name
	})
	return venues, nil
}

func (m *MockVenueDB) SearchVenues(term string) ([]models.Venue, error) {
	if m.shouldFailOn == "SearchVenues" {
		return nil, errors.New(m.errorMsg)
	}
	lowered := strings.ToLower(term)
	var venues []models.Venue
	for _, v := range m.venues {
		if strings.Contains(strings.ToLower(v.Name), lowered) ||
			strings.Contains(strings.ToLower(v.City), lowered) ||
			strings.Contains(strings.ToLower(v.State), lowered) {
			venues = append(venues, *v)
		}
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i].Name < venues[j].Name })
	return venues, nil
}

func (m *MockVenueDB) CreateVenue(v *models.Venue) error {
	if m.shouldFailOn == "CreateVenue" {
		return errors.New(m.errorMsg)
	}
	m.nextID++
	v.ID = m.nextID
	copied := *v
	m.venues[v.ID] = &copied
	return nil
}

func (m *MockVenueDB) UpdateVenue(v models.Venue) error {
	if m.shouldFailOn == "UpdateVenue" {
		return errors.New(m.errorMsg)
	}
	if _, exists := m.venues[v.ID]; !exists {
		return sql.ErrNoRows
	}
	m.venues[v.ID] = &v
	return nil
}

func (m *MockVenueDB) DeleteVenue(id int64) error {
	if m.shouldFailOn == "DeleteVenue" {
		return errors.New(m.errorMsg)
	}
	if _, exists := m.venues[id]; !exists {
		return sql.ErrNoRows
	}
	delete(m.venues, id)
	delete(m.shows, id)
	return nil
}

func (m *MockVenueDB) CountUpcomingShows(venueIDs []int64, now time.Time) (map[int64]int, error) {
	if m.shouldFailOn == "CountUpcomingShows" {
		return nil, errors.New(m.errorMsg)
	}
	counts := make(map[int64]int)
	for _, id := range venueIDs {
		for _, show := range m.shows[id] {
			if show.StartTime.After(now) {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *MockVenueDB) ListShowsForVenue(venueID int64) ([]models.VenueShowInfo, error) {
	if m.shouldFailOn == "ListShowsForVenue" {
		return nil, errors.New(m.errorMsg)
	}
	return m.shows[venueID], nil
}

type MockPublisher struct {
	events     []string
	shouldFail bool
}

func (m *MockPublisher) publish(event string) error {
	if m.shouldFail {
		return errors.New("kafka unavailable")
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) PublishVenueCreated(v models.Venue) error { return m.publish("venue.created") }
func (m *MockPublisher) PublishVenueUpdated(v models.Venue) error { return m.publish("venue.updated") }
func (m *MockPublisher) PublishVenueDeleted(v models.Venue) error { return m.publish("venue.deleted") }

func seedMockVenue(db *MockVenueDB, name, city, state, genres string) *models.Venue {
	v := &models.Venue{Name: name, City: city, State: state, Genres: genres}
	db.CreateVenue(v)
	return db.venues[v.ID]
}

func TestListVenueAreas(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	hop := seedMockVenue(db, "The Musical Hop", "San Francisco", "CA", "Jazz")
	seedMockVenue(db, "Park Square Live Music & Coffee", "San Francisco", "CA", "Jazz")
	seedMockVenue(db, "The Dueling Pianos Bar", "New York", "NY", "Classical")

	future := time.Now().Add(2 * time.Hour)
	db.shows[hop.ID] = []models.VenueShowInfo{
		{ArtistID: 1, ArtistName: "Guns N Petals", StartTime: future},
		{ArtistID: 2, ArtistName: "The Wild Sax Band", StartTime: future.Add(time.Hour)},
	}

	areas, err := service.ListVenueAreas()
	if err != nil {
		t.Fatalf("Failed to list venue areas: %v", err)
	}
	if len(areas) != 2 {
		t.Fatalf("Expected 2 areas, got %d", len(areas))
	}

	// CA before NY, venues within an area by name
	if areas[0].City != "San Francisco" || areas[0].State != "CA" {
		t.Errorf("Expected San Francisco/CA first, got %s/%s", areas[0].City, areas[0].State)
	}
	if len(areas[0].Venues) != 2 {
		t.Fatalf("Expected 2 venues in San Francisco, got %d", len(areas[0].Venues))
	}
	if areas[0].Venues[0].Name != "Park Square Live Music & Coffee" {
		t.Errorf("Expected Park Square first by name, got %s", areas[0].Venues[0].Name)
	}
	if areas[0].Venues[1].NumUpcomingShows != 2 {
		t.Errorf("Expected 2 upcoming shows for The Musical Hop, got %d", areas[0].Venues[1].NumUpcomingShows)
	}
	if areas[1].Venues[0].NumUpcomingShows != 0 {
		t.Errorf("Expected 0 upcoming shows for The Dueling Pianos Bar, got %d", areas[1].Venues[0].NumUpcomingShows)
	}
}

func TestListVenueAreasEmpty(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	areas, err := service.ListVenueAreas()
	if err != nil {
		t.Fatalf("Failed to list venue areas: %v", err)
	}
	if len(areas) != 0 {
		t.Errorf("Expected no areas, got %d", len(areas))
	}
}

func TestSearchVenuesResults(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	hop := seedMockVenue(db, "The Musical Hop", "San Francisco", "CA", "Jazz")
	seedMockVenue(db, "The Dueling Pianos Bar", "New York", "NY", "Classical")

	db.shows[hop.ID] = []models.VenueShowInfo{
		{ArtistID: 1, ArtistName: "Guns N Petals", StartTime: time.Now().Add(time.Hour)},
	}

	results, err := service.SearchVenues("musical")
	if err != nil {
		t.Fatalf("Failed to search venues: %v", err)
	}
	if results.Count != 1 {
		t.Fatalf("Expected count 1, got %d", results.Count)
	}
	if results.Data[0].Name != "The Musical Hop" {
		t.Errorf("Expected The Musical Hop, got %s", results.Data[0].Name)
	}
	if results.Data[0].NumUpcomingShows != 1 {
		t.Errorf("Expected 1 upcoming show, got %d", results.Data[0].NumUpcomingShows)
	}

	// No matches still yields a well-formed result
	results, err = service.SearchVenues("zanzibar")
	if err != nil {
		t.Fatalf("Failed to search venues: %v", err)
	}
	if results.Count != 0 || len(results.Data) != 0 {
		t.Errorf("Expected empty results, got %+v", results)
	}
}

func TestGetVenueDetail(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	v := seedMockVenue(db, "The Musical Hop", "San Francisco", "CA", "Jazz,Reggae,Swing")

	now := time.Now()
	db.shows[v.ID] = []models.VenueShowInfo{
		{ArtistID: 1, ArtistName: "Guns N Petals", ArtistImageLink: "https://example.com/gnp.jpg", StartTime: now.Add(-48 * time.Hour)},
		{ArtistID: 2, ArtistName: "The Wild Sax Band", StartTime: now.Add(time.Hour)},
		{ArtistID: 2, ArtistName: "The Wild Sax Band", StartTime: now.Add(2 * time.Hour)},
	}

	detail, err := service.GetVenue(v.ID)
	if err != nil {
		t.Fatalf("Failed to get venue detail: %v", err)
	}

	if detail.Name != "The Musical Hop" {
		t.Errorf("Expected venue name, got %s", detail.Name)
	}
	if len(detail.Genres) != 3 || detail.Genres[0] != "Jazz" || detail.Genres[2] != "Swing" {
		t.Errorf("Expected split genres, got %v", detail.Genres)
	}
	if detail.PastShowsCount != 1 || len(detail.PastShows) != 1 {
		t.Errorf("Expected 1 past show, got %d", detail.PastShowsCount)
	}
	if detail.UpcomingShowsCount != 2 || len(detail.UpcomingShows) != 2 {
		t.Errorf("Expected 2 upcoming shows, got %d", detail.UpcomingShowsCount)
	}
	if detail.PastShows[0].ArtistName != "Guns N Petals" {
		t.Errorf("Expected Guns N Petals in past shows, got %s", detail.PastShows[0].ArtistName)
	}

	// Start times are rendered in the fixed display format
	rendered := detail.UpcomingShows[0].StartTime
	if _, err := time.Parse(models.StartTimeFormat, rendered); err != nil {
		t.Errorf("Expected start time in display format, got %q: %v", rendered, err)
	}
}

func TestGetVenueDetailEmptyGenres(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	v := seedMockVenue(db, "The Musical Hop", "San Francisco", "CA", "")

	detail, err := service.GetVenue(v.ID)
	if err != nil {
		t.Fatalf("Failed to get venue detail: %v", err)
	}
	if len(detail.Genres) != 0 {
		t.Errorf("Expected no genres for empty string, got %v", detail.Genres)
	}
}

func TestGetVenueNotFound(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	_, err := service.GetVenue(404)
	if !errors.Is(err, venue.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCreateVenue(t *testing.T) {
	db := NewMockVenueDB()
	publisher := &MockPublisher{}
	service := venue.NewVenueService(db, publisher, nil)

	created, err := service.CreateVenue(models.VenueForm{
		Name:   "The Musical Hop",
		City:   "San Francisco",
		State:  "CA",
		Genres: []string{"Jazz", "Reggae", "Swing"},
	})
	if err != nil {
		t.Fatalf("Failed to create venue: %v", err)
	}
	if created.ID == 0 {
		t.Error("Expected assigned venue ID")
	}
	if created.Genres != "Jazz,Reggae,Swing" {
		t.Errorf("Expected joined genres, got %s", created.Genres)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "venue.created" {
		t.Errorf("Expected venue.created event, got %v", publisher.events)
	}
}

func TestCreateVenueValidation(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	cases := []models.VenueForm{
		{Name: "", City: "San Francisco", State: "CA"},
		{Name: "The Musical Hop", City: "   ", State: "CA"},
		{Name: "The Musical Hop", City: "San Francisco", State: ""},
		{Name: "The Musical Hop", City: "San Francisco", State: "CA", Genres: []string{"Jazz, Swing"}},
	}
	for _, form := range cases {
		if _, err := service.CreateVenue(form); !errors.Is(err, venue.ErrValidation) {
			t.Errorf("Expected ErrValidation for form %+v, got %v", form, err)
		}
	}
	if len(db.venues) != 0 {
		t.Errorf("Expected no venues created, got %d", len(db.venues))
	}
}

func TestCreateVenuePublishFailureIsNonFatal(t *testing.T) {
	db := NewMockVenueDB()
	publisher := &MockPublisher{shouldFail: true}
	service := venue.NewVenueService(db, publisher, nil)

	created, err := service.CreateVenue(models.VenueForm{
		Name:  "The Musical Hop",
		City:  "San Francisco",
		State: "CA",
	})
	if err != nil {
		t.Fatalf("Expected create to succeed despite publish failure: %v", err)
	}
	if _, exists := db.venues[created.ID]; !exists {
		t.Error("Expected venue to be persisted")
	}
}

func TestUpdateVenue(t *testing.T) {
	db := NewMockVenueDB()
	publisher := &MockPublisher{}
	service := venue.NewVenueService(db, publisher, nil)

	v := seedMockVenue(db, "The Musical Hop", "San Francisco", "CA", "Jazz")

	updated, err := service.UpdateVenue(v.ID, models.VenueForm{
		Name:   "The Musical Hop Annex",
		City:   "Oakland",
		State:  "CA",
		Genres: []string{"Jazz", "Funk"},
	})
	if err != nil {
		t.Fatalf("Failed to update venue: %v", err)
	}
	if updated.Name != "The Musical Hop Annex" || updated.City != "Oakland" {
		t.Errorf("Expected updated fields, got %s/%s", updated.Name, updated.City)
	}
	if db.venues[v.ID].Genres != "Jazz,Funk" {
		t.Errorf("Expected persisted joined genres, got %s", db.venues[v.ID].Genres)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "venue.updated" {
		t.Errorf("Expected venue.updated event, got %v", publisher.events)
	}
}

func TestUpdateVenueNotFound(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	_, err := service.UpdateVenue(404, models.VenueForm{Name: "Ghost Hall", City: "Nowhere", State: "NA"})
	if !errors.Is(err, venue.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteVenue(t *testing.T) {
	db := NewMockVenueDB()
	publisher := &MockPublisher{}
	service := venue.NewVenueService(db, publisher, nil)

	v := seedMockVenue(db, "The Musical Hop", "San Francisco", "CA", "Jazz")
	db.shows[v.ID] = []models.VenueShowInfo{
		{ArtistID: 1, ArtistName: "Guns N Petals", StartTime: time.Now().Add(time.Hour)},
	}

	deleted, err := service.DeleteVenue(v.ID)
	if err != nil {
		t.Fatalf("Failed to delete venue: %v", err)
	}
	if deleted.Name != "The Musical Hop" {
		t.Errorf("Expected deleted venue name back, got %s", deleted.Name)
	}
	if len(db.venues) != 0 {
		t.Error("Expected venue removed")
	}
	if len(db.shows[v.ID]) != 0 {
		t.Error("Expected venue's shows removed")
	}
	if len(publisher.events) != 1 || publisher.events[0] != "venue.deleted" {
		t.Errorf("Expected venue.deleted event, got %v", publisher.events)
	}
}

func TestDeleteVenueNotFound(t *testing.T) {
	db := NewMockVenueDB()
	service := venue.NewVenueService(db, nil, nil)

	_, err := service.DeleteVenue(404)
	if !errors.Is(err, venue.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestVenueDBErrorPropagates(t *testing.T) {
	db := NewMockVenueDB()
	db.shouldFailOn = "ListVenues"
	db.errorMsg = "connection refused"
	service := venue.NewVenueService(db, nil, nil)

	_, err := service.ListVenueAreas()
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected wrapped db error, got %v", err)
	}
}
