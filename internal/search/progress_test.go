// ABOUTME: Tests for the progress reporter
// ABOUTME: Verifies event kinds, non-blocking publish, and the DONE sentinel
package search

import (
	"testing"
	"time"
)

func TestReporterEventKinds(t *testing.T) {
	r := NewReporter(8)

	r.Publish("5/10 Städte verarbeitet")
	r.Warnf("API Fehler für %s", "Teststadt")
	r.Errorf("Keine Städte gefunden")
	r.Close()

	var events []string
	for ev := range r.Events() {
		events = append(events, ev)
	}

	if len(events) != 4 {
		t.Fatalf("got %d events, want 4: %v", len(events), events)
	}
	if IsWarning(events[0]) || IsError(events[0]) {
		t.Errorf("event[0] = %q should be plain", events[0])
	}
	if !IsWarning(events[1]) {
		t.Errorf("event[1] = %q should be a warning", events[1])
	}
	if !IsError(events[2]) {
		t.Errorf("event[2] = %q should be an error", events[2])
	}
	if events[3] != DoneToken {
		t.Errorf("event[3] = %q, want DONE sentinel", events[3])
	}
}

func TestReporterNeverBlocksWithoutObserver(t *testing.T) {
	r := NewReporter(2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			r.Publish("event %d", i)
		}
		r.Close()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publishing without an observer blocked the producer")
	}
}

func TestReporterDoneSurvivesFullBuffer(t *testing.T) {
	r := NewReporter(2)
	r.Publish("one")
	r.Publish("two")
	r.Close()

	var last string
	for ev := range r.Events() {
		last = ev
	}
	if last != DoneToken {
		t.Errorf("last event = %q, want DONE even with a full buffer", last)
	}
}

func TestReporterPublishAfterClose(t *testing.T) {
	r := NewReporter(4)
	r.Close()
	// Must not panic on a closed stream.
	r.Publish("late event")
	r.Warnf("late warning")
	r.Close()
}
