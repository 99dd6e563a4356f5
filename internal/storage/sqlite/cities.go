// ABOUTME: City registry access for SQLite
// ABOUTME: The registry is read once per run; writes exist for seeding only
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ortsatlas/ortsatlas/internal/models"
)

// CityStore handles city registry access
type CityStore struct {
	db *DB
}

// NewCityStore creates a new CityStore
func NewCityStore(db *DB) *CityStore {
	return &CityStore{db: db}
}

// List returns the full city registry in id order.
func (s *CityStore) List() ([]models.City, error) {
	rows, err := s.db.Query(`
		SELECT city_id, name, simplified_name, latitude, longitude
		FROM city
		ORDER BY city_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cities []models.City
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// Count returns the number of registered cities.
func (s *CityStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM city`).Scan(&n)
	return n, err
}

// Insert adds a city to the registry and returns its id.
func (s *CityStore) Insert(city models.City) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO city (name, simplified_name, latitude, longitude)
		VALUES (?, ?, ?, ?)
	`, city.Name, nullString(city.SimplifiedName), city.Latitude, city.Longitude)
	if err != nil {
		return 0, fmt.Errorf("failed to insert city %q: %w", city.Name, err)
	}
	return res.LastInsertId()
}

func scanCity(rows *sql.Rows) (models.City, error) {
	var (
		city       models.City
		simplified sql.NullString
		lat, lon   sql.NullFloat64
	)
	if err := rows.Scan(&city.ID, &city.Name, &simplified, &lat, &lon); err != nil {
		return models.City{}, fmt.Errorf("failed to scan city: %w", err)
	}
	if simplified.Valid {
		city.SimplifiedName = simplified.String
	}
	if lat.Valid {
		city.Latitude = &lat.Float64
	}
	if lon.Valid {
		city.Longitude = &lon.Float64
	}
	return city, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
