// ABOUTME: Place payload types mirroring the Places searchText response
// ABOUTME: Field availability depends on the request field mask, so optionals are pointers
package models

import (
	"encoding/json"
	"strings"
)

// LocalizedText is a text value with its language, as the API nests
// display names, summaries and review bodies.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AddressComponent is one typed piece of a structured address.
type AddressComponent struct {
	LongText  string   `json:"longText"`
	ShortText string   `json:"shortText"`
	Types     []string `json:"types"`
}

// OpeningHours carries the weekday descriptions and the raw period list.
// Periods stay opaque JSON; the store persists them verbatim.
type OpeningHours struct {
	WeekdayDescriptions []string        `json:"weekdayDescriptions"`
	Periods             json.RawMessage `json:"periods"`
}

// AuthorAttribution identifies the author of a review.
type AuthorAttribution struct {
	DisplayName string `json:"displayName"`
	URI         string `json:"uri"`
}

// Review is a single user review attached to a place.
type Review struct {
	Rating                         *float64           `json:"rating"`
	RelativePublishTimeDescription string             `json:"relativePublishTimeDescription"`
	Text                           *LocalizedText     `json:"text"`
	AuthorAttribution              *AuthorAttribution `json:"authorAttribution"`
	PublishTime                    string             `json:"publishTime"`
}

// AuthorName returns the review author's display name, empty when absent.
func (r Review) AuthorName() string {
	if r.AuthorAttribution == nil {
		return ""
	}
	return r.AuthorAttribution.DisplayName
}

// Place is one raw place object from a searchText response. Absent fields
// are unknown, not zero: scalars that matter for persistence are pointers.
type Place struct {
	ID                       string             `json:"id"`
	Name                     string             `json:"name"`
	DisplayName              *LocalizedText     `json:"displayName"`
	FormattedAddress         string             `json:"formattedAddress"`
	AddressComponents        []AddressComponent `json:"addressComponents"`
	Location                 *LatLng            `json:"location"`
	InternationalPhoneNumber string             `json:"internationalPhoneNumber"`
	WebsiteURI               string             `json:"websiteUri"`
	GoogleMapsURI            string             `json:"googleMapsUri"`
	PriceLevel               string             `json:"priceLevel"`
	Types                    []string           `json:"types"`
	Rating                   *float64           `json:"rating"`
	UserRatingCount          *int               `json:"userRatingCount"`
	RegularOpeningHours      *OpeningHours      `json:"regularOpeningHours"`
	Reviews                  []Review           `json:"reviews"`
	LiveMusic                *bool              `json:"liveMusic"`
	OutdoorSeating           *bool              `json:"outdoorSeating"`
	EditorialSummary         *LocalizedText     `json:"editorialSummary"`
}

// DisplayNameText returns displayName.text, empty when absent.
func (p Place) DisplayNameText() string {
	if p.DisplayName == nil {
		return ""
	}
	return p.DisplayName.Text
}

// EditorialSummaryText returns editorialSummary.text, empty when absent.
func (p Place) EditorialSummaryText() string {
	if p.EditorialSummary == nil {
		return ""
	}
	return p.EditorialSummary.Text
}

// PrimaryType returns the first entry of the type list, empty when none.
func (p Place) PrimaryType() string {
	if len(p.Types) == 0 {
		return ""
	}
	return p.Types[0]
}

// PostalCode extracts the postal code from the typed address components.
// The first component tagged "postal_code" wins, longText preferred over
// shortText. Returns nil when no such component exists.
func (p Place) PostalCode() *string {
	for _, comp := range p.AddressComponents {
		for _, t := range comp.Types {
			if t != "postal_code" {
				continue
			}
			code := comp.LongText
			if code == "" {
				code = comp.ShortText
			}
			return &code
		}
	}
	return nil
}

// PriceLevelOrdinal derives the price level as the count of '€' symbols in
// the part after the last '$'. Returns nil when the API sent no price level.
func (p Place) PriceLevelOrdinal() *int {
	if p.PriceLevel == "" {
		return nil
	}
	parts := strings.Split(p.PriceLevel, "$")
	n := strings.Count(parts[len(parts)-1], "€")
	return &n
}

// CityResult is the outcome of one city's search: either a payload of raw
// place objects or an error-tagged stub. It always keeps its city
// attribution so failures can be reported and skipped downstream.
type CityResult struct {
	CityID     int64
	CityName   string
	Places     []Place
	StatusCode int
	Err        error
}

// Failed reports whether this result is an error-tagged stub.
func (r CityResult) Failed() bool {
	return r.Err != nil
}
