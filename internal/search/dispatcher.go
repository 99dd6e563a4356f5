// ABOUTME: Concurrency-bounded fan-out of per-city place searches
// ABOUTME: Admission limiter plus pacing keep throughput under the API budget
package search

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ortsatlas/ortsatlas/internal/models"
)

// Searcher performs the two-phase lookup for a single city/term pair.
// Implemented by places.Client.
type Searcher interface {
	Search(ctx context.Context, query string, city models.City) models.CityResult
}

// Dispatcher fans out per-city searches under an admission limiter. One
// failed or panicking city never affects its siblings; every city produces
// exactly one attributed result.
type Dispatcher struct {
	searcher Searcher
	sem      *semaphore.Weighted
	pace     time.Duration
}

// NewDispatcher creates a dispatcher with the given concurrency bound and
// post-request pacing delay. The limiter is shared across batches so the
// bound holds for the whole run.
func NewDispatcher(searcher Searcher, concurrency int, pace time.Duration) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		searcher: searcher,
		sem:      semaphore.NewWeighted(int64(concurrency)),
		pace:     pace,
	}
}

// Dispatch runs the search for every city and returns one result per city,
// index-aligned with the input. onCity, when non-nil, is invoked once per
// completed city from the worker goroutine; it must be safe for concurrent
// use. Dispatch returns only after all cities have completed.
func (d *Dispatcher) Dispatch(ctx context.Context, term string, cities []models.City, onCity func(models.CityResult)) []models.CityResult {
	results := make([]models.CityResult, len(cities))

	var wg sync.WaitGroup
	for i, city := range cities {
		wg.Add(1)
		go func(i int, city models.City) {
			defer wg.Done()
			results[i] = d.runCity(ctx, term, city, onCity)
		}(i, city)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) runCity(ctx context.Context, term string, city models.City, onCity func(models.CityResult)) models.CityResult {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return models.CityResult{
			CityID:   city.ID,
			CityName: city.Name,
			Err:      fmt.Errorf("admission limiter: %w", err),
		}
	}
	defer d.sem.Release(1)

	query := fmt.Sprintf("%s in %s", term, city.QueryName())
	result := d.guardedSearch(ctx, query, city)

	if onCity != nil {
		onCity(result)
	}
	// Pace after each successful call while still inside the limiter, so a
	// burst of fast responses cannot exceed the per-minute budget.
	if !result.Failed() && d.pace > 0 {
		time.Sleep(d.pace)
	}
	return result
}

// guardedSearch isolates the per-city task: a panic is converted into an
// error-tagged result instead of cancelling siblings or the batch.
func (d *Dispatcher) guardedSearch(ctx context.Context, query string, city models.City) (result models.CityResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Recovered panic while processing %s: %v", city.Name, rec)
			result = models.CityResult{
				CityID:   city.ID,
				CityName: city.Name,
				Err:      fmt.Errorf("panic: %v", rec),
			}
		}
	}()
	return d.searcher.Search(ctx, query, city)
}
