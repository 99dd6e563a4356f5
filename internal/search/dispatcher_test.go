// ABOUTME: Tests for the concurrency dispatcher
// ABOUTME: Verifies the admission bound, attribution, and panic isolation
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ortsatlas/ortsatlas/internal/models"
)

// fakeSearcher runs a caller-supplied function per city.
type fakeSearcher struct {
	fn func(query string, city models.City) models.CityResult
}

func (f *fakeSearcher) Search(_ context.Context, query string, city models.City) models.CityResult {
	return f.fn(query, city)
}

func syntheticCities(n int) []models.City {
	cities := make([]models.City, n)
	for i := range cities {
		cities[i] = models.City{ID: int64(i + 1), Name: fmt.Sprintf("Stadt %d", i+1)}
	}
	return cities
}

func TestDispatchConcurrencyBound(t *testing.T) {
	const limit = 10
	var inFlight, peak atomic.Int64

	searcher := &fakeSearcher{fn: func(query string, city models.City) models.CityResult {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return models.CityResult{CityID: city.ID, CityName: city.Name}
	}}

	d := NewDispatcher(searcher, limit, 0)
	results := d.Dispatch(context.Background(), "Bäckerei", syntheticCities(200), nil)

	if len(results) != 200 {
		t.Fatalf("got %d results, want 200", len(results))
	}
	if got := peak.Load(); got > limit {
		t.Errorf("peak in-flight = %d, want <= %d", got, limit)
	}
}

func TestDispatchPreservesAttribution(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string, city models.City) models.CityResult {
		// Vary completion order deliberately.
		time.Sleep(time.Duration(city.ID%5) * time.Millisecond)
		return models.CityResult{
			CityID:   city.ID,
			CityName: city.Name,
			Places:   make([]models.Place, city.ID),
		}
	}}

	cities := syntheticCities(30)
	d := NewDispatcher(searcher, 8, 0)
	results := d.Dispatch(context.Background(), "Bäckerei", cities, nil)

	for i, res := range results {
		if res.CityID != cities[i].ID {
			t.Errorf("results[%d].CityID = %d, want %d", i, res.CityID, cities[i].ID)
		}
		if len(res.Places) != int(cities[i].ID) {
			t.Errorf("results[%d] has %d places, want %d", i, len(res.Places), cities[i].ID)
		}
	}
}

func TestDispatchQueryUsesSimplifiedName(t *testing.T) {
	var mu sync.Mutex
	queries := map[int64]string{}

	searcher := &fakeSearcher{fn: func(query string, city models.City) models.CityResult {
		mu.Lock()
		queries[city.ID] = query
		mu.Unlock()
		return models.CityResult{CityID: city.ID, CityName: city.Name}
	}}

	cities := []models.City{
		{ID: 1, Name: "Frankfurt am Main", SimplifiedName: "Frankfurt"},
		{ID: 2, Name: "Teststadt"},
	}
	d := NewDispatcher(searcher, 2, 0)
	d.Dispatch(context.Background(), "Bäckerei", cities, nil)

	if queries[1] != "Bäckerei in Frankfurt" {
		t.Errorf("query for city 1 = %q, want %q", queries[1], "Bäckerei in Frankfurt")
	}
	if queries[2] != "Bäckerei in Teststadt" {
		t.Errorf("query for city 2 = %q, want %q", queries[2], "Bäckerei in Teststadt")
	}
}

func TestDispatchIsolatesPanics(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string, city models.City) models.CityResult {
		if city.ID == 7 {
			panic("city 7 exploded")
		}
		return models.CityResult{CityID: city.ID, CityName: city.Name, Places: []models.Place{{ID: "p" + strconv.FormatInt(city.ID, 10)}}}
	}}

	d := NewDispatcher(searcher, 10, 0)
	results := d.Dispatch(context.Background(), "Bäckerei", syntheticCities(50), nil)

	if len(results) != 50 {
		t.Fatalf("got %d results, want 50", len(results))
	}
	for i, res := range results {
		if res.CityID == 7 {
			if !res.Failed() {
				t.Error("city 7 should carry an error-tagged result")
			} else if !strings.Contains(res.Err.Error(), "panic") {
				t.Errorf("city 7 error = %v, want panic tag", res.Err)
			}
			continue
		}
		if res.Failed() {
			t.Errorf("results[%d] (city %d) failed: %v", i, res.CityID, res.Err)
		}
		if len(res.Places) != 1 {
			t.Errorf("results[%d] has %d places, want 1", i, len(res.Places))
		}
	}
}

func TestDispatchInvokesCallbackPerCity(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string, city models.City) models.CityResult {
		res := models.CityResult{CityID: city.ID, CityName: city.Name}
		if city.ID%3 == 0 {
			res.Err = fmt.Errorf("HTTP 500")
		}
		return res
	}}

	var calls atomic.Int32
	d := NewDispatcher(searcher, 5, 0)
	d.Dispatch(context.Background(), "Bäckerei", syntheticCities(20), func(res models.CityResult) {
		calls.Add(1)
	})

	if got := calls.Load(); got != 20 {
		t.Errorf("callback invoked %d times, want 20 (failures included)", got)
	}
}

func TestDispatchPacingDelaysCompletion(t *testing.T) {
	searcher := &fakeSearcher{fn: func(query string, city models.City) models.CityResult {
		return models.CityResult{CityID: city.ID, CityName: city.Name}
	}}

	// 4 cities, concurrency 1, 20ms pace -> at least ~80ms total.
	d := NewDispatcher(searcher, 1, 20*time.Millisecond)
	start := time.Now()
	d.Dispatch(context.Background(), "Bäckerei", syntheticCities(4), nil)

	if elapsed := time.Since(start); elapsed < 75*time.Millisecond {
		t.Errorf("dispatch finished in %v, pacing not applied", elapsed)
	}
}
