package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

// Booking a show requires both sides of the reference to exist; the checks
// run in the same transaction as the insert so a failure leaves nothing
// behind.
var (
	ErrArtistNotFound = errors.New("referenced artist does not exist")
	ErrVenueNotFound  = errors.New("referenced venue does not exist")
)

type DB struct {
	Bun *bun.DB
}

// ---------------- SHOWS ----------------

// ListShows → every show joined with both its venue and artist
func (d *DB) ListShows() ([]models.ShowInfo, error) {
	var shows []models.ShowInfo
	err := d.Bun.NewSelect().
		Table("shows").
		ColumnExpr("shows.venue_id, venues.name AS venue_name, shows.artist_id, artists.name AS artist_name, artists.image_link AS artist_image_link, shows.start_time").
		Join("JOIN venues ON venues.id = shows.venue_id").
		Join("JOIN artists ON artists.id = shows.artist_id").
		OrderExpr("shows.start_time ASC, shows.id ASC").
		Scan(context.Background(), &shows)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

// CreateShow inserts the show after verifying both references inside one
// transaction. A missing artist or venue rolls the whole thing back.
func (d *DB) CreateShow(show *models.Show) error {
	return d.Bun.RunInTx(context.Background(), nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Artist)(nil)).
			Where("id = ?", show.ArtistID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrArtistNotFound
		}

		exists, err = tx.NewSelect().
			Model((*models.Venue)(nil)).
			Where("id = ?", show.VenueID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrVenueNotFound
		}

		_, err = tx.NewInsert().Model(show).Exec(ctx)
		return err
	})
}

// DeleteShow → remove one booking
func (d *DB) DeleteShow(id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Show)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
