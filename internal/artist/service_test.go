package artist_test

import (
	"database/sql"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"ms-booking/internal/artist"
	"ms-booking/internal/models"
)

// Mock implementations for testing

type MockArtistDB struct {
	artists      map[int64]*models.Artist
	shows        map[int64][]models.ArtistShowInfo
	nextID       int64
	shouldFailOn string
	errorMsg     string
}

func NewMockArtistDB() *MockArtistDB {
	return &MockArtistDB{
		artists: make(map[int64]*models.Artist),
		shows:   make(map[int64][]models.ArtistShowInfo),
	}
}

func (m *MockArtistDB) GetArtistByID(id int64) (*models.Artist, error) {
	if m.shouldFailOn == "GetArtistByID" {
		return nil, errors.New(m.errorMsg)
	}
	a, exists := m.artists[id]
	if !exists {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (m *MockArtistDB) ListArtists() ([]models.Artist, error) {
	if m.shouldFailOn == "ListArtists" {
		return nil, errors.New(m.errorMsg)
	}
	artists := make([]models.Artist, 0, len(m.artists))
	for _, a := range m.artists {
		artists = append(artists, *a)
	}
	sort.Slice(artists, func(i, j int) bool { return artists[i].Name < artists[j].Name })
	return artists, nil
}

func (m *MockArtistDB) SearchArtists(term string) ([]models.Artist, error) {
	if m.shouldFailOn == "SearchArtists" {
		return nil, errors.New(m.errorMsg)
	}
	lowered := strings.ToLower(term)
	var artists []models.Artist
	for _, a := range m.artists {
		if strings.Contains(strings.ToLower(a.Name), lowered) ||
			strings.Contains(strings.ToLower(a.City), lowered) ||
			strings.Contains(strings.ToLower(a.State), lowered) {
			artists = append(artists, *a)
		}
	}
	sort.Slice(artists, func(i, j int) bool { return artists[i].Name < artists[j].Name })
	return artists, nil
}

func (m *MockArtistDB) CreateArtist(a *models.Artist) error {
	if m.shouldFailOn == "CreateArtist" {
		return errors.New(m.errorMsg)
	}
	m.nextID++
	a.ID = m.nextID
	copied := *a
	m.artists[a.ID] = &copied
	return nil
}

func (m *MockArtistDB) UpdateArtist(a models.Artist) error {
	if m.shouldFailOn == "UpdateArtist" {
		return errors.New(m.errorMsg)
	}
	if _, exists := m.artists[a.ID]; !exists {
		return sql.ErrNoRows
	}
	m.artists[a.ID] = &a
	return nil
}

func (m *MockArtistDB) DeleteArtist(id int64) error {
	if m.shouldFailOn == "DeleteArtist" {
		return errors.New(m.errorMsg)
	}
	if _, exists := m.artists[id]; !exists {
		return sql.ErrNoRows
	}
	delete(m.artists, id)
	delete(m.shows, id)
	return nil
}

func (m *MockArtistDB) CountUpcomingShows(artistIDs []int64, now time.Time) (map[int64]int, error) {
	if m.shouldFailOn == "CountUpcomingShows" {
		return nil, errors.New(m.errorMsg)
	}
	counts := make(map[int64]int)
	for _, id := range artistIDs {
		for _, show := range m.shows[id] {
			if show.StartTime.After(now) {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *MockArtistDB) ListShowsForArtist(artistID int64) ([]models.ArtistShowInfo, error) {
	if m.shouldFailOn == "ListShowsForArtist" {
		return nil, errors.New(m.errorMsg)
	}
	return m.shows[artistID], nil
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

func (m *MockPublisher) PublishArtistCreated(a models.Artist) error {
	return m.publish("artist.created")
}
func (m *MockPublisher) PublishArtistUpdated(a models.Artist) error {
	return m.publish("artist.updated")
}
func (m *MockPublisher) PublishArtistDeleted(a models.Artist) error {
	return m.publish("artist.deleted")
}

func seedMockArtist(db *MockArtistDB, name, city, state, genres string) *models.Artist {
	a := &models.Artist{Name: name, City: city, State: state, Genres: genres}
	db.CreateArtist(a)
	return db.artists[a.ID]
}

func TestListArtists(t *testing.T) {
	db := NewMockArtistDB()
	service := artist.NewArtistService(db, nil, nil)

	seedMockArtist(db, "The Wild Sax Band", "San Francisco", "CA", "Jazz")
	seedMockArtist(db, "Guns N Petals", "San Francisco", "CA", "Rock n Roll")

	refs, err := service.ListArtists()
	if err != nil {
		t.Fatalf("Failed to list artists: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 artists, got %d", len(refs))
	}
	if refs[0].Name != "Guns N Petals" || refs[1].Name != "The Wild Sax Band" {
		t.Errorf("Expected artists ordered by name, got %v", refs)
	}
}

func TestSearchArtistsResults(t *testing.T) {
	db := NewMockArtistDB()
	service := artist.NewArtistService(db, nil, nil)

	band := seedMockArtist(db, "The Wild Sax Band", "San Francisco", "CA", "Jazz")
	seedMockArtist(db, "Matt Quevedo", "New York", "NY", "Jazz")

	db.shows[band.ID] = []models.ArtistShowInfo{
		{VenueID: 1, VenueName: "The Musical Hop", StartTime: time.Now().Add(time.Hour)},
		{VenueID: 1, VenueName: "The Musical Hop", StartTime: time.Now().Add(-time.Hour)},
	}

	results, err := service.SearchArtists("sax")
	if err != nil {
		t.Fatalf("Failed to search artists: %v", err)
	}
	if results.Count != 1 {
		t.Fatalf("Expected count 1, got %d", results.Count)
	}
	if results.Data[0].Name != "The Wild Sax Band" {
		t.Errorf("Expected The Wild Sax Band, got %s", results.Data[0].Name)
	}
	if results.Data[0].NumUpcomingShows != 1 {
		t.Errorf("Expected 1 upcoming show, got %d", results.Data[0].NumUpcomingShows)
	}
}

func TestGetArtistDetail(t *testing.T) {
	db := NewMockArtistDB()
	service := artist.NewArtistService(db, nil, nil)

	a := seedMockArtist(db, "The Wild Sax Band", "San Francisco", "CA", "Jazz,Classical")

	now := time.Now()
	db.shows[a.ID] = []models.ArtistShowInfo{
		{VenueID: 1, VenueName: "The Musical Hop", VenueImageLink: "https://example.com/hop.jpg", StartTime: now.Add(-24 * time.Hour)},
		{VenueID: 2, VenueName: "Park Square Live Music & Coffee", StartTime: now.Add(time.Hour)},
	}

	detail, err := service.GetArtist(a.ID)
	if err != nil {
		t.Fatalf("Failed to get artist detail: %v", err)
	}

	if detail.Name != "The Wild Sax Band" {
		t.Errorf("Expected artist name, got %s", detail.Name)
	}
	if len(detail.Genres) != 2 || detail.Genres[1] != "Classical" {
		t.Errorf("Expected split genres, got %v", detail.Genres)
	}
	if detail.PastShowsCount != 1 || detail.PastShows[0].VenueName != "The Musical Hop" {
		t.Errorf("Expected The Musical Hop in past shows, got %+v", detail.PastShows)
	}
	if detail.UpcomingShowsCount != 1 || detail.UpcomingShows[0].VenueName != "Park Square Live Music & Coffee" {
		t.Errorf("Expected Park Square in upcoming shows, got %+v", detail.UpcomingShows)
	}
}

func TestGetArtistNotFound(t *testing.T) {
	db := NewMockArtistDB()
	service := artist.NewArtistService(db, nil, nil)

	_, err := service.GetArtist(404)
	if !errors.Is(err, artist.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCreateArtist(t *testing.T) {
	db := NewMockArtistDB()
	publisher := &MockPublisher{}
	service := artist.NewArtistService(db, publisher, nil)

	created, err := service.CreateArtist(models.ArtistForm{
		Name:   "Guns N Petals",
		City:   "San Francisco",
		State:  "CA",
		Genres: []string{"Rock n Roll"},
	})
	if err != nil {
		t.Fatalf("Failed to create artist: %v", err)
	}
	if created.Genres != "Rock n Roll" {
		t.Errorf("Expected joined genres, got %s", created.Genres)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "artist.created" {
		t.Errorf("Expected artist.created event, got %v", publisher.events)
	}
}

func TestCreateArtistValidation(t *testing.T) {
	db := NewMockArtistDB()
	service := artist.NewArtistService(db, nil, nil)

	cases := []models.ArtistForm{
		{Name: "", City: "San Francisco", State: "CA", Genres: []string{"Jazz"}},
		{Name: "Guns N Petals", City: "", State: "CA", Genres: []string{"Jazz"}},
		{Name: "Guns N Petals", City: "San Francisco", State: "", Genres: []string{"Jazz"}},
		// Artists must declare at least one genre
		{Name: "Guns N Petals", City: "San Francisco", State: "CA"},
		{Name: "Guns N Petals", City: "San Francisco", State: "CA", Genres: []string{"Jazz, Swing"}},
	}
	for _, form := range cases {
		if _, err := service.CreateArtist(form); !errors.Is(err, artist.ErrValidation) {
			t.Errorf("Expected ErrValidation for form %+v, got %v", form, err)
		}
	}
	if len(db.artists) != 0 {
		t.Errorf("Expected no artists created, got %d", len(db.artists))
	}
}

func TestUpdateArtist(t *testing.T) {
	db := NewMockArtistDB()
	publisher := &MockPublisher{}
	service := artist.NewArtistService(db, publisher, nil)

	a := seedMockArtist(db, "Guns N Petals", "San Francisco", "CA", "Rock n Roll")

	updated, err := service.UpdateArtist(a.ID, models.ArtistForm{
		Name:   "Guns N Petals",
		City:   "Oakland",
		State:  "CA",
		Genres: []string{"Rock n Roll", "Blues"},
	})
	if err != nil {
		t.Fatalf("Failed to update artist: %v", err)
	}
	if updated.City != "Oakland" {
		t.Errorf("Expected updated city, got %s", updated.City)
	}
	if db.artists[a.ID].Genres != "Rock n Roll,Blues" {
		t.Errorf("Expected persisted joined genres, got %s", db.artists[a.ID].Genres)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "artist.updated" {
		t.Errorf("Expected artist.updated event, got %v", publisher.events)
	}
}

func TestUpdateArtistNotFound(t *testing.T) {
	db := NewMockArtistDB()
	service := artist.NewArtistService(db, nil, nil)

	_, err := service.UpdateArtist(404, models.ArtistForm{
		Name: "Ghost Band", City: "Nowhere", State: "NA", Genres: []string{"None"},
	})
	if !errors.Is(err, artist.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteArtist(t *testing.T) {
	db := NewMockArtistDB()
	publisher := &MockPublisher{}
	service := artist.NewArtistService(db, publisher, nil)

	a := seedMockArtist(db, "Guns N Petals", "San Francisco", "CA", "Rock n Roll")

	deleted, err := service.DeleteArtist(a.ID)
	if err != nil {
		t.Fatalf("Failed to delete artist: %v", err)
	}
	if deleted.Name != "Guns N Petals" {
		t.Errorf("Expected deleted artist name back, got %s", deleted.Name)
	}
	if len(db.artists) != 0 {
		t.Error("Expected artist removed")
	}
	if len(publisher.events) != 1 || publisher.events[0] != "artist.deleted" {
		t.Errorf("Expected artist.deleted event, got %v", publisher.events)
	}
}

func TestDeleteArtistNotFound(t *testing.T) {
	db := NewMockArtistDB()
	service := artist.NewArtistService(db, nil, nil)

	_, err := service.DeleteArtist(404)
	if !errors.Is(err, artist.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestArtistDBErrorPropagates(t *testing.T) {
	db := NewMockArtistDB()
	db.shouldFailOn = "ListArtists"
	db.errorMsg = "connection refused"
	service := artist.NewArtistService(db, nil, nil)

	_, err := service.ListArtists()
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected wrapped db error, got %v", err)
	}
}
