package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Artist struct {
	bun.BaseModel `bun:"table:artists"`

	ID                 int64     `bun:"id,pk,autoincrement" json:"id"`
	Name               string    `bun:"name,notnull" json:"name"`
	City               string    `bun:"city,notnull" json:"city"`
	State              string    `bun:"state,notnull" json:"state"`
	Phone              string    `bun:"phone" json:"phone"`
	ImageLink          string    `bun:"image_link" json:"image_link"`
	FacebookLink       string    `bun:"facebook_link" json:"facebook_link"`
	Website            string    `bun:"website" json:"website"`
	SeekingVenue       bool      `bun:"seeking_venue,notnull,default:false" json:"seeking_venue"`
	SeekingDescription string    `bun:"seeking_description" json:"seeking_description"`
	Genres             string    `bun:"genres,notnull" json:"-"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// ArtistForm carries the validated field set for artist creation and update.
// Unlike venues, genres are mandatory for artists.
type ArtistForm struct {
	Name               string   `json:"name"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	Phone              string   `json:"phone"`
	ImageLink          string   `json:"image_link"`
	FacebookLink       string   `json:"facebook_link"`
	Website            string   `json:"website"`
	SeekingVenue       bool     `json:"seeking_venue"`
	SeekingDescription string   `json:"seeking_description"`
	Genres             []string `json:"genres"`
}
