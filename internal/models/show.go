package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Show is a booking: one artist performing at one venue at a start time.
// Shows are created once and never updated; they disappear either by direct
// deletion or as a cascade when their artist or venue is deleted.
type Show struct {
	bun.BaseModel `bun:"table:shows"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ArtistID  int64     `bun:"artist_id,notnull" json:"artist_id"`
	VenueID   int64     `bun:"venue_id,notnull" json:"venue_id"`
	StartTime time.Time `bun:"start_time,notnull" json:"start_time"`
}

// ShowForm carries the validated field set for show creation.
type ShowForm struct {
	ArtistID  int64     `json:"artist_id"`
	VenueID   int64     `json:"venue_id"`
	StartTime time.Time `json:"start_time"`
}
