// ABOUTME: Typed records for the city registry and search terms
// ABOUTME: Cities are read-only within the search pipeline, terms are lazily created
package models

import "time"

// City is one entry of the city registry. Latitude and longitude are
// optional; cities without coordinates never get a location-biased retry.
type City struct {
	ID             int64
	Name           string
	SimplifiedName string
	Latitude       *float64
	Longitude      *float64
}

// QueryName returns the name to use in search queries, falling back to the
// display name when no simplified name is recorded.
func (c City) QueryName() string {
	if c.SimplifiedName != "" {
		return c.SimplifiedName
	}
	return c.Name
}

// HasCoordinates reports whether the city carries a usable lat/lon pair.
func (c City) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// SearchTerm is a named search keyword. Created on first use, immutable after.
type SearchTerm struct {
	ID   int64
	Name string
}

// PlaceRecord is the place table row as read back from the database.
type PlaceRecord struct {
	PlaceID           string
	Name              string
	DisplayName       string
	FormattedAddress  string
	Latitude          *float64
	Longitude         *float64
	PhoneNumber       string
	WebsiteURI        string
	GoogleMapsURI     string
	PriceLevel        *int
	PrimaryType       string
	CityID            int64
	PostalCode        string
	LastUpdated       time.Time
	SupportsLiveMusic *bool
	OutdoorSeating    *bool
	EditorialSummary  string
}
