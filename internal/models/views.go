package models

import "time"

// View structures returned by the read operations. They are kept separate
// from the persisted models so computed fields never leak into table shape.

// Summary is one row of a listing or search result: the entity plus the
// count of its shows starting strictly after the evaluation moment.
type Summary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// VenueArea groups the venues of one distinct (city, state) pair.
type VenueArea struct {
	City   string    `json:"city"`
	State  string    `json:"state"`
	Venues []Summary `json:"venues"`
}

// SearchResults is the response shape of venue and artist search.
type SearchResults struct {
	Count int       `json:"count"`
	Data  []Summary `json:"data"`
}

// ArtistRef is one row of the flat artist listing.
type ArtistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VenueShowInfo is a raw joined row for one show at a venue: the artist
// side of the booking plus the start time, as read from the store.
type VenueShowInfo struct {
	ArtistID        int64     `bun:"artist_id"`
	ArtistName      string    `bun:"artist_name"`
	ArtistImageLink string    `bun:"artist_image_link"`
	StartTime       time.Time `bun:"start_time"`
}

// ArtistShowInfo is the venue side of a booking, for the artist detail view.
type ArtistShowInfo struct {
	VenueID        int64     `bun:"venue_id"`
	VenueName      string    `bun:"venue_name"`
	VenueImageLink string    `bun:"venue_image_link"`
	StartTime      time.Time `bun:"start_time"`
}

// ArtistShowView is one formatted entry in a venue's past/upcoming lists.
type ArtistShowView struct {
	ArtistID        int64  `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// VenueShowView is one formatted entry in an artist's past/upcoming lists.
type VenueShowView struct {
	VenueID        int64  `json:"venue_id"`
	VenueName      string `json:"venue_name"`
	VenueImageLink string `json:"venue_image_link"`
	StartTime      string `json:"start_time"`
}

// VenueDetail is the full venue page payload.
type VenueDetail struct {
	Venue
	Genres             []string         `json:"genres"`
	PastShows          []ArtistShowView `json:"past_shows"`
	UpcomingShows      []ArtistShowView `json:"upcoming_shows"`
	PastShowsCount     int              `json:"past_shows_count"`
	UpcomingShowsCount int              `json:"upcoming_shows_count"`
}

// ArtistDetail is the full artist page payload.
type ArtistDetail struct {
	Artist
	Genres             []string        `json:"genres"`
	PastShows          []VenueShowView `json:"past_shows"`
	UpcomingShows      []VenueShowView `json:"upcoming_shows"`
	PastShowsCount     int             `json:"past_shows_count"`
	UpcomingShowsCount int             `json:"upcoming_shows_count"`
}

// ShowInfo is one row of the global show listing, enriched with both sides
// of the booking.
type ShowInfo struct {
	VenueID         int64     `bun:"venue_id" json:"venue_id"`
	VenueName       string    `bun:"venue_name" json:"venue_name"`
	ArtistID        int64     `bun:"artist_id" json:"artist_id"`
	ArtistName      string    `bun:"artist_name" json:"artist_name"`
	ArtistImageLink string    `bun:"artist_image_link" json:"artist_image_link"`
	StartTime       time.Time `bun:"start_time" json:"start_time"`
}

// ShowView is one formatted row of the global show listing.
type ShowView struct {
	VenueID         int64  `json:"venue_id"`
	VenueName       string `json:"venue_name"`
	ArtistID        int64  `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// StartTimeFormat is the display format for show start times in the
// detail views.
const StartTimeFormat = "2006-01-02 15:04:05"
