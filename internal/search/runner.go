// ABOUTME: Bulk search orchestration: term bootstrap, batching, persistence
// ABOUTME: Runs are fire-and-forget behind a handle with an owned event stream
package search

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ortsatlas/ortsatlas/internal/config"
	"github.com/ortsatlas/ortsatlas/internal/models"
	"github.com/ortsatlas/ortsatlas/internal/places"
	"github.com/ortsatlas/ortsatlas/internal/storage/sqlite"
	"github.com/ortsatlas/ortsatlas/internal/util"
)

// Runner starts bulk search runs against the city registry.
type Runner struct {
	cfg *config.Config
	db  *sqlite.DB
}

// NewRunner creates a Runner backed by the given store.
func NewRunner(cfg *config.Config, db *sqlite.DB) *Runner {
	return &Runner{cfg: cfg, db: db}
}

// Run is the handle for one asynchronous bulk search. The caller owns the
// event stream; it is closed after the terminal DONE event.
type Run struct {
	ID       string
	Term     string
	reporter *Reporter
	done     chan struct{}
	err      error
}

// Events returns the run's progress event stream.
func (r *Run) Events() <-chan string { return r.reporter.Events() }

// Done is closed once the run has finished, successfully or not.
func (r *Run) Done() <-chan struct{} { return r.done }

// Err returns the run-fatal error, if any. Valid only after Done is closed.
func (r *Run) Err() error { return r.err }

// Wait blocks until the run has finished and returns its error.
func (r *Run) Wait() error {
	<-r.done
	return r.err
}

// Start begins a bulk search for the term and returns immediately. The run
// proceeds to completion on its own; there is no mid-flight cancellation.
func (r *Runner) Start(term, apiKey string) *Run {
	run := &Run{
		ID:       uuid.NewString(),
		Term:     term,
		reporter: NewReporter(256),
		done:     make(chan struct{}),
	}
	go r.execute(run, apiKey)
	return run
}

func (r *Runner) execute(run *Run, apiKey string) {
	defer close(run.done)
	defer run.reporter.Close()
	defer func() {
		if rec := recover(); rec != nil {
			run.err = fmt.Errorf("panic: %v", rec)
			log.Printf("Search run %s panicked: %v", run.ID, rec)
			run.reporter.Errorf("Schwerwiegender Fehler im Hintergrund-Suchprozess: %v", rec)
		}
	}()

	if err := r.run(run, apiKey); err != nil {
		run.err = err
		log.Printf("Search run %s failed: %v", run.ID, err)
	}
}

func (r *Runner) run(run *Run, apiKey string) error {
	terms := sqlite.NewTermStore(r.db)
	cities := sqlite.NewCityStore(r.db)
	ingest := sqlite.NewIngestStore(r.db)

	term, created, err := terms.GetOrCreate(run.Term)
	if err != nil {
		run.reporter.Errorf("Suchbegriff '%s' konnte nicht angelegt werden: %v", run.Term, err)
		return fmt.Errorf("failed to resolve term %q: %w", run.Term, err)
	}
	if created {
		log.Printf("Term %q not yet registered, created with id %d", run.Term, term.ID)
		run.reporter.Publish("Suchbegriff '%s' erfolgreich angelegt.", run.Term)
	}

	log.Printf("Starting bulk search for %q (term_id %d)", run.Term, term.ID)
	run.reporter.Publish("Starte Suche für '%s'...", run.Term)

	registry, err := cities.List()
	if err != nil {
		run.reporter.Errorf("Schwerwiegender Fehler im Hintergrund-Suchprozess: %v", err)
		return fmt.Errorf("failed to load city registry: %w", err)
	}
	total := len(registry)
	if total == 0 {
		run.reporter.Errorf("Keine Städte in der Datenbank gefunden.")
		return fmt.Errorf("no cities registered")
	}
	run.reporter.Publish("0/%d Städten verarbeitet.", total)

	client := places.NewClient(apiKey,
		places.WithEndpoint(r.cfg.PlacesEndpoint),
		places.WithTimeout(r.cfg.PlacesTimeout),
	)
	dispatcher := NewDispatcher(client, r.cfg.Concurrency, r.cfg.PaceDelay())

	tracker := &progressTracker{total: total, start: time.Now()}
	ctx := context.Background()

	batchSize := r.cfg.BatchSize
	for offset := 0; offset < total; offset += batchSize {
		end := min(offset+batchSize, total)
		batch := registry[offset:end]
		log.Printf("Dispatching batch %d (cities %d-%d of %d)", offset/batchSize+1, offset+1, end, total)

		results := dispatcher.Dispatch(ctx, run.Term, batch, func(res models.CityResult) {
			tracker.record(run.reporter, res)
		})

		// Persist before the next batch starts: completed batches stay
		// durable even when the run aborts later.
		if err := ingest.SaveBatch(term.ID, results); err != nil {
			log.Printf("Failed to persist batch %d: %v", offset/batchSize+1, err)
			run.reporter.Errorf("Batch konnte nicht gespeichert werden: %v", err)
			continue
		}
		log.Printf("Batch %d persisted", offset/batchSize+1)
	}

	processed, found := tracker.totals()
	summary := fmt.Sprintf("Suche abgeschlossen. %d Orte in %d von %d Städten gefunden in %s.",
		found, processed, total, util.FormatMinSec(time.Since(tracker.start)))
	log.Print(summary)
	run.reporter.Publish("%s", summary)
	return nil
}

// progressTracker accumulates run-wide totals across batches. record is
// called concurrently from dispatcher workers.
type progressTracker struct {
	mu        sync.Mutex
	total     int
	processed int
	found     int
	start     time.Time
}

func (p *progressTracker) record(reporter *Reporter, res models.CityResult) {
	p.mu.Lock()
	p.processed++
	processed := p.processed
	if !res.Failed() {
		p.found += len(res.Places)
	}
	p.mu.Unlock()

	if res.Failed() {
		log.Printf("API error for %s: %v", res.CityName, res.Err)
		reporter.Warnf("API Fehler für %s - %v", res.CityName, res.Err)
		reporter.Publish("%d/%d Städte verarbeitet (%s: Fehler).", processed, p.total, res.CityName)
		return
	}

	remaining := util.EstimateRemaining(time.Since(p.start), processed, p.total)
	reporter.Publish("%d/%d Städte verarbeitet (%s: %d Orte). Geschätzte Restzeit: %s.",
		processed, p.total, res.CityName, len(res.Places), util.FormatMinSec(remaining))
}

func (p *progressTracker) totals() (processed, found int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.found
}
