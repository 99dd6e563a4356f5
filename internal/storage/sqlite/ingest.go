// ABOUTME: Idempotent multi-table persistence for batch search results
// ABOUTME: One transaction per batch; per-row failures are logged and skipped
package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ortsatlas/ortsatlas/internal/models"
)

// IngestStore persists one batch of per-city search results across the
// place tables. Replaying an identical batch is safe: place and
// opening_hours rows are overwritten in place, the fact tables ignore
// duplicates, and only rating_history accumulates one row per observation.
type IngestStore struct {
	db *DB
}

// NewIngestStore creates a new IngestStore
func NewIngestStore(db *DB) *IngestStore {
	return &IngestStore{db: db}
}

// SaveBatch writes one batch's results in a single transaction. Error-tagged
// results are skipped, zero-place cities are logged distinctly, and a failure
// on one row never aborts the rest of the batch.
func (s *IngestStore) SaveBatch(termID int64, results []models.CityResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}

	now := time.Now()
	for _, res := range results {
		if res.Failed() {
			continue
		}
		if len(res.Places) == 0 {
			log.Printf("No places to store for %s (city_id: %d)", res.CityName, res.CityID)
			continue
		}
		for _, place := range res.Places {
			if place.ID == "" {
				continue
			}
			// Children are only written once the place row exists.
			if err := upsertPlace(tx, place, res.CityID, now); err != nil {
				log.Printf("Failed to store place %s: %v", place.ID, err)
				continue
			}
			insertPlaceTypes(tx, place)
			insertSearchFact(tx, termID, res.CityID, place.ID, now)
			appendRatingHistory(tx, place, now)
			upsertOpeningHours(tx, place)
			insertReviews(tx, place)
		}
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// upsertPlace inserts or refreshes the place row. Only fields the API
// actually sent are written, so a sparse sighting never blanks out columns
// filled by an earlier, richer one.
func upsertPlace(tx *sql.Tx, place models.Place, cityID int64, now time.Time) error {
	cols := []string{"place_id"}
	args := []interface{}{place.ID}
	add := func(col string, v interface{}) {
		cols = append(cols, col)
		args = append(args, v)
	}

	if place.Name != "" {
		add("name", place.Name)
	}
	if v := place.DisplayNameText(); v != "" {
		add("display_name", v)
	}
	if place.FormattedAddress != "" {
		add("formatted_address", place.FormattedAddress)
	}
	if place.Location != nil {
		add("latitude", place.Location.Latitude)
		add("longitude", place.Location.Longitude)
	}
	if place.InternationalPhoneNumber != "" {
		add("phone_number", place.InternationalPhoneNumber)
	}
	if place.WebsiteURI != "" {
		add("website_uri", place.WebsiteURI)
	}
	if place.GoogleMapsURI != "" {
		add("google_maps_uri", place.GoogleMapsURI)
	}
	if v := place.PriceLevelOrdinal(); v != nil {
		add("price_level", *v)
	}
	if v := place.PrimaryType(); v != "" {
		add("primary_type", v)
	}
	add("city_id", cityID)
	add("last_updated", now)
	if v := place.PostalCode(); v != nil {
		add("postal_code", *v)
	}
	if place.LiveMusic != nil {
		add("supports_live_music", *place.LiveMusic)
	}
	if place.OutdoorSeating != nil {
		add("outdoor_seating", *place.OutdoorSeating)
	}
	if v := place.EditorialSummaryText(); v != "" {
		add("editorial_summary", v)
	}

	setters := make([]string, 0, len(cols)-1)
	for _, col := range cols[1:] {
		setters = append(setters, col+" = excluded."+col)
	}

	query := fmt.Sprintf(
		"INSERT INTO place (%s) VALUES (%s) ON CONFLICT(place_id) DO UPDATE SET %s",
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
		strings.Join(setters, ", "),
	)
	_, err := tx.Exec(query, args...)
	return err
}

func insertPlaceTypes(tx *sql.Tx, place models.Place) {
	for _, placeType := range place.Types {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO place_type (place_id, type) VALUES (?, ?)
		`, place.ID, placeType)
		if err != nil {
			log.Printf("Failed to store place_type for %s: %v", place.ID, err)
		}
	}
}

func insertSearchFact(tx *sql.Tx, termID, cityID int64, placeID string, now time.Time) {
	_, err := tx.Exec(`
		INSERT OR IGNORE INTO place_search (term_id, city_id, place_id, search_timestamp)
		VALUES (?, ?, ?, ?)
	`, termID, cityID, placeID, now)
	if err != nil {
		log.Printf("Failed to store place_search for %s in city %d: %v", placeID, cityID, err)
	}
}

// appendRatingHistory records one observation per sighting, and only when
// both rating and rating count are present.
func appendRatingHistory(tx *sql.Tx, place models.Place, now time.Time) {
	if place.Rating == nil || place.UserRatingCount == nil {
		return
	}
	_, err := tx.Exec(`
		INSERT INTO rating_history (place_id, rating, user_rating_count, timestamp)
		VALUES (?, ?, ?, ?)
	`, place.ID, *place.Rating, *place.UserRatingCount, now)
	if err != nil {
		log.Printf("Failed to store rating history for %s: %v", place.ID, err)
	}
}

func upsertOpeningHours(tx *sql.Tx, place models.Place) {
	hours := place.RegularOpeningHours
	if hours == nil {
		return
	}
	weekdayText := strings.Join(hours.WeekdayDescriptions, "\n")
	periodsJSON := "[]"
	if len(hours.Periods) > 0 {
		periodsJSON = string(hours.Periods)
	}
	_, err := tx.Exec(`
		INSERT INTO opening_hours (place_id, weekday_text, periods_json)
		VALUES (?, ?, ?)
		ON CONFLICT(place_id) DO UPDATE SET
			weekday_text = excluded.weekday_text,
			periods_json = excluded.periods_json
	`, place.ID, weekdayText, periodsJSON)
	if err != nil {
		log.Printf("Failed to store opening hours for %s: %v", place.ID, err)
	}
}

func insertReviews(tx *sql.Tx, place models.Place) {
	for _, review := range place.Reviews {
		var publishTime interface{}
		if review.PublishTime != "" {
			parsed, err := time.Parse(time.RFC3339, review.PublishTime)
			if err != nil {
				log.Printf("Could not parse publishTime %q for review by %s: %v",
					review.PublishTime, review.AuthorName(), err)
			} else {
				publishTime = parsed
			}
		}

		var body, lang string
		if review.Text != nil {
			body = review.Text.Text
			lang = review.Text.LanguageCode
		}

		_, err := tx.Exec(`
			INSERT OR IGNORE INTO review (
				place_id, author_name, rating,
				relative_publish_time_description, text, language_code, publish_time
			)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, place.ID, review.AuthorName(), review.Rating,
			review.RelativePublishTimeDescription, body, lang, publishTime)
		if err != nil {
			log.Printf("Failed to store review for %s: %v", place.ID, err)
		}
	}
}
