// ABOUTME: Progress event stream for bulk search runs
// ABOUTME: Best-effort side channel that never blocks the run loop
package search

import (
	"fmt"
	"strings"
	"sync"
)

// DoneToken is the terminal sentinel; observers must treat it as the sole
// authoritative end-of-run signal.
const DoneToken = "DONE"

// Prefixes marking non-fatal and fatal notices in the event vocabulary.
const (
	WarnPrefix  = "WARNUNG:"
	ErrorPrefix = "FEHLER:"
)

// IsWarning reports whether an event is a warning notice.
func IsWarning(event string) bool { return strings.HasPrefix(event, WarnPrefix) }

// IsError reports whether an event is an error notice.
func IsError(event string) bool { return strings.HasPrefix(event, ErrorPrefix) }

// Reporter publishes human-readable status events for one run. It is owned
// by the run: created at start, closed after the terminal event. Publishing
// never blocks; when no observer drains the channel, events are dropped.
type Reporter struct {
	mu     sync.Mutex
	ch     chan string
	closed bool
}

// NewReporter creates a reporter with the given event buffer.
func NewReporter(buffer int) *Reporter {
	if buffer <= 0 {
		buffer = 256
	}
	return &Reporter{ch: make(chan string, buffer)}
}

// Events returns the receive side of the event stream. The channel is
// closed after the terminal DONE event has been delivered.
func (r *Reporter) Events() <-chan string {
	return r.ch
}

// Publish emits a plain status event.
func (r *Reporter) Publish(format string, args ...any) {
	r.send(fmt.Sprintf(format, args...))
}

// Warnf emits a warning-tagged event.
func (r *Reporter) Warnf(format string, args ...any) {
	r.send(WarnPrefix + " " + fmt.Sprintf(format, args...))
}

// Errorf emits an error-tagged event.
func (r *Reporter) Errorf(format string, args ...any) {
	r.send(ErrorPrefix + " " + fmt.Sprintf(format, args...))
}

// Close emits the terminal DONE event and closes the stream. The DONE send
// bypasses the drop path so an attached observer always sees it. Safe to
// call more than once.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	select {
	case r.ch <- DoneToken:
	default:
		// Buffer full and nobody draining: drop the oldest pending event
		// to make room so the sentinel is never lost.
		select {
		case <-r.ch:
		default:
		}
		select {
		case r.ch <- DoneToken:
		default:
		}
	}
	close(r.ch)
}

func (r *Reporter) send(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- msg:
	default:
	}
}
