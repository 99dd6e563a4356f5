// ABOUTME: HTTP client for the Places searchText API with two-phase lookup
// ABOUTME: Retries empty results once with a location-bias circle around the city
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ortsatlas/ortsatlas/internal/models"
)

// DefaultEndpoint is the production searchText endpoint.
const DefaultEndpoint = "https://places.googleapis.com/v1/places:searchText"

// biasRadiusMeters is the location-bias circle radius used on the retry.
// 50 km covers rural districts whose places sit outside the town itself.
const biasRadiusMeters = 50000.0

type searchRequest struct {
	TextQuery           string        `json:"textQuery"`
	LanguageCode        string        `json:"languageCode"`
	MaxResultCount      int           `json:"maxResultCount"`
	RegionCode          string        `json:"regionCode"`
	StrictTypeFiltering bool          `json:"strictTypeFiltering"`
	RankPreference      string        `json:"rankPreference"`
	LocationBias        *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center models.LatLng `json:"center"`
	Radius float64       `json:"radius"`
}

type searchResponse struct {
	Places []models.Place `json:"places"`
}

// Client performs place text searches for single city/term pairs. It is
// safe for concurrent use; the zero value is not usable, construct with
// NewClient.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	fieldMask  string
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint, primarily for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a searchText client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   DefaultEndpoint,
		apiKey:     apiKey,
		fieldMask:  "*",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs the two-phase lookup for one city: a plain text query first,
// then, if that came back empty and the city has coordinates, one retry with
// a location-bias circle whose result set is final even when also empty.
// Failures never escape as errors; they come back as an error-tagged result
// attributed to the city.
func (c *Client) Search(ctx context.Context, query string, city models.City) models.CityResult {
	result := models.CityResult{CityID: city.ID, CityName: city.Name}

	req := searchRequest{
		TextQuery:           query,
		LanguageCode:        "de-DE",
		MaxResultCount:      20,
		RegionCode:          "de",
		StrictTypeFiltering: false,
		RankPreference:      "RELEVANCE",
	}

	found, status, err := c.doSearch(ctx, req)
	if err != nil {
		result.StatusCode = status
		result.Err = fmt.Errorf("search %q: %w", query, err)
		return result
	}

	if len(found) == 0 && city.HasCoordinates() {
		log.Printf("No results for %q, retrying with location bias around %s", query, city.Name)
		req.LocationBias = &locationBias{
			Circle: circle{
				Center: models.LatLng{Latitude: *city.Latitude, Longitude: *city.Longitude},
				Radius: biasRadiusMeters,
			},
		}
		found, status, err = c.doSearch(ctx, req)
		if err != nil {
			result.StatusCode = status
			result.Err = fmt.Errorf("biased search %q: %w", query, err)
			return result
		}
	}

	result.Places = found
	return result
}

// doSearch issues a single searchText request and decodes the place list.
// The returned status code is 0 when the request never reached the server.
func (c *Client) doSearch(ctx context.Context, payload searchRequest) ([]models.Place, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", c.fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}

	return decoded.Places, resp.StatusCode, nil
}
