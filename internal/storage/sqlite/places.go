// ABOUTME: Read-side access to persisted places
// ABOUTME: Returns typed records constructed at the read boundary
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ortsatlas/ortsatlas/internal/models"
)

// PlaceStore handles place reads
type PlaceStore struct {
	db *DB
}

// NewPlaceStore creates a new PlaceStore
func NewPlaceStore(db *DB) *PlaceStore {
	return &PlaceStore{db: db}
}

// GetByID returns the place row for the given external id, or nil.
func (s *PlaceStore) GetByID(placeID string) (*models.PlaceRecord, error) {
	var (
		rec          models.PlaceRecord
		name         sql.NullString
		displayName  sql.NullString
		address      sql.NullString
		lat, lon     sql.NullFloat64
		phone        sql.NullString
		website      sql.NullString
		mapsURI      sql.NullString
		priceLevel   sql.NullInt64
		primaryType  sql.NullString
		postalCode   sql.NullString
		lastUpdated  sql.NullTime
		liveMusic    sql.NullBool
		outdoor      sql.NullBool
		editorialSum sql.NullString
	)

	err := s.db.QueryRow(`
		SELECT place_id, name, display_name, formatted_address, latitude, longitude,
		       phone_number, website_uri, google_maps_uri, price_level, primary_type,
		       city_id, postal_code, last_updated, supports_live_music,
		       outdoor_seating, editorial_summary
		FROM place WHERE place_id = ?
	`, placeID).Scan(&rec.PlaceID, &name, &displayName, &address, &lat, &lon,
		&phone, &website, &mapsURI, &priceLevel, &primaryType,
		&rec.CityID, &postalCode, &lastUpdated, &liveMusic, &outdoor, &editorialSum)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query place %s: %w", placeID, err)
	}

	rec.Name = name.String
	rec.DisplayName = displayName.String
	rec.FormattedAddress = address.String
	if lat.Valid {
		rec.Latitude = &lat.Float64
	}
	if lon.Valid {
		rec.Longitude = &lon.Float64
	}
	rec.PhoneNumber = phone.String
	rec.WebsiteURI = website.String
	rec.GoogleMapsURI = mapsURI.String
	if priceLevel.Valid {
		v := int(priceLevel.Int64)
		rec.PriceLevel = &v
	}
	rec.PrimaryType = primaryType.String
	rec.PostalCode = postalCode.String
	if lastUpdated.Valid {
		rec.LastUpdated = lastUpdated.Time
	}
	if liveMusic.Valid {
		rec.SupportsLiveMusic = &liveMusic.Bool
	}
	if outdoor.Valid {
		rec.OutdoorSeating = &outdoor.Bool
	}
	rec.EditorialSummary = editorialSum.String

	return &rec, nil
}

// CountForCity returns the number of places recorded for a city.
func (s *PlaceStore) CountForCity(cityID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM place WHERE city_id = ?`, cityID).Scan(&n)
	return n, err
}

// LatestRating returns the most recent rating observation for a place via
// max-timestamp lookup, or nils when no observation exists.
func (s *PlaceStore) LatestRating(placeID string) (*float64, *int, time.Time, error) {
	var (
		rating sql.NullFloat64
		count  sql.NullInt64
		ts     sql.NullTime
	)
	err := s.db.QueryRow(`
		SELECT rating, user_rating_count, timestamp
		FROM rating_history
		WHERE place_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`, placeID).Scan(&rating, &count, &ts)
	if err == sql.ErrNoRows {
		return nil, nil, time.Time{}, nil
	}
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to query latest rating for %s: %w", placeID, err)
	}

	var (
		ratingOut *float64
		countOut  *int
	)
	if rating.Valid {
		ratingOut = &rating.Float64
	}
	if count.Valid {
		v := int(count.Int64)
		countOut = &v
	}
	return ratingOut, countOut, ts.Time, nil
}
