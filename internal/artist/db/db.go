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

// ---------------- ARTISTS ----------------

// GetArtistByID → fetch one artist by its ID
func (d *DB) GetArtistByID(id int64) (*models.Artist, error) {
	var artist models.Artist
	err := d.Bun.NewSelect().
		Model(&artist).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// ListArtists → every artist ordered by name
func (d *DB) ListArtists() ([]models.Artist, error) {
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
		Order("name ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return artists, nil
}

// SearchArtists matches the term as a case-insensitive substring of name,
// city or state, with LIKE metacharacters escaped so terms match literally.
func (d *DB) SearchArtists(term string) ([]models.Artist, error) {
	pattern := "%" + escapeLikeTerm(term) + "%"
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
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
	return artists, nil
}

// CreateArtist → insert new artist, assigning the generated ID
func (d *DB) CreateArtist(artist *models.Artist) error {
	_, err := d.Bun.NewInsert().Model(artist).Exec(context.Background())
	return err
}

// UpdateArtist overwrites every mutable field. created_at stays as set at
// insert.
func (d *DB) UpdateArtist(artist models.Artist) error {
	res, err := d.Bun.NewUpdate().
		Model(&artist).
		Column("name", "city", "state", "phone", "image_link",
			"facebook_link", "website", "seeking_venue", "seeking_description", "genres").
		Where("id = ?", artist.ID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteArtist removes the artist and all its booked shows in a single
// transaction, mirroring the ON DELETE CASCADE constraint.
func (d *DB) DeleteArtist(id int64) error {
	return d.Bun.RunInTx(context.Background(), nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Show)(nil)).
			Where("artist_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*models.Artist)(nil)).
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

// CountUpcomingShows → number of shows per artist starting strictly after now
func (d *DB) CountUpcomingShows(artistIDs []int64, now time.Time) (map[int64]int, error) {
	counts := make(map[int64]int, len(artistIDs))
	if len(artistIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ArtistID int64 `bun:"artist_id"`
		Count    int   `bun:"count"`
	}
	err := d.Bun.NewSelect().
		Table("shows").
		ColumnExpr("artist_id, count(*) AS count").
		Where("artist_id IN (?)", bun.In(artistIDs)).
		Where("start_time > ?", now).
		Group("artist_id").
		Scan(context.Background(), &rows)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ArtistID] = row.Count
	}
	return counts, nil
}

// ListShowsForArtist → every show booked by the artist joined with its venue
func (d *DB) ListShowsForArtist(artistID int64) ([]models.ArtistShowInfo, error) {
	var shows []models.ArtistShowInfo
	err := d.Bun.NewSelect().
		Table("shows").
		ColumnExpr("shows.venue_id, venues.name AS venue_name, venues.image_link AS venue_image_link, shows.start_time").
		Join("JOIN venues ON venues.id = shows.venue_id").
		Where("shows.artist_id = ?", artistID).
		OrderExpr("shows.start_time ASC, shows.id ASC").
		Scan(context.Background(), &shows)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

func escapeLikeTerm(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
