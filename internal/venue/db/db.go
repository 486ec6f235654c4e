package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- VENUES ----------------

// GetVenueByID → fetch one venue by its ID
func (d *DB) GetVenueByID(id int64) (*models.Venue, error) {
	var venue models.Venue
	err := d.Bun.NewSelect().
		Model(&venue).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// ListVenues returns every venue ordered by state, city, name so the
// grouped listing comes out in one stable documented order.
func (d *DB) ListVenues() ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Order("state ASC", "city ASC", "name ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return venues, nil
}

// SearchVenues matches the term as a case-insensitive substring of name,
// city or state. Pattern metacharacters in the term are escaped so user
// input always matches literally; an empty term matches every venue.
func (d *DB) SearchVenues(term string) ([]models.Venue, error) {
	pattern := "%" + escapeLikeTerm(term) + "%"
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(name) LIKE lower(?) ESCAPE '\\'", pattern).
				WhereOr("lower(city) LIKE lower(?) ESCAPE '\\'", pattern).
				WhereOr("lower(state) LIKE lower(?) ESCAPE '\\'", pattern)
		}).
		Order("name ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return venues, nil
}

// CreateVenue → insert new venue, assigning the generated ID
func (d *DB) CreateVenue(venue *models.Venue) error {
	_, err := d.Bun.NewInsert().Model(venue).Exec(context.Background())
	return err
}

// UpdateVenue overwrites every mutable field. created_at is deliberately
// not in the column list; it is set once at insert.
func (d *DB) UpdateVenue(venue models.Venue) error {
	res, err := d.Bun.NewUpdate().
		Model(&venue).
		Column("name", "city", "state", "address", "phone", "image_link",
			"facebook_link", "website", "seeking_talent", "seeking_description", "genres").
		Where("id = ?", venue.ID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteVenue removes the venue and all shows booked at it in a single
// transaction, mirroring the ON DELETE CASCADE constraint so the behavior
// holds on stores where the constraint isn't wired up.
func (d *DB) DeleteVenue(id int64) error {
	return d.Bun.RunInTx(context.Background(), nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Show)(nil)).
			Where("venue_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*models.Venue)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

// ---------------- RELATION QUERIES ----------------

// CountUpcomingShows → number of shows per venue starting strictly after now
func (d *DB) CountUpcomingShows(venueIDs []int64, now time.Time) (map[int64]int, error) {
	counts := make(map[int64]int, len(venueIDs))
	if len(venueIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		VenueID int64 `bun:"venue_id"`
		Count   int   `bun:"count"`
	}
	err := d.Bun.NewSelect().
		Table("shows").
		ColumnExpr("venue_id, count(*) AS count").
		Where("venue_id IN (?)", bun.In(venueIDs)).
		Where("start_time > ?", now).
		Group("venue_id").
		Scan(context.Background(), &rows)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.VenueID] = row.Count
	}
	return counts, nil
}

// ListShowsForVenue → every show at the venue joined with its artist
func (d *DB) ListShowsForVenue(venueID int64) ([]models.VenueShowInfo, error) {
	var shows []models.VenueShowInfo
	err := d.Bun.NewSelect().
		Table("shows").
		ColumnExpr("shows.artist_id, artists.name AS artist_name, artists.image_link AS artist_image_link, shows.start_time").
		Join("JOIN artists ON artists.id = shows.artist_id").
		Where("shows.venue_id = ?", venueID).
		OrderExpr("shows.start_time ASC, shows.id ASC").
		Scan(context.Background(), &shows)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

// escapeLikeTerm backslash-escapes LIKE metacharacters so the search term
// is matched literally.
func escapeLikeTerm(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
