// ABOUTME: Run-control and SSE status handlers
// ABOUTME: Status streaming mirrors the event protocol of the search runner
package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ortsatlas/ortsatlas/internal/search"
)

const (
	sseRetryMillis    = 2000
	keepAliveInterval = 5 * time.Second
)

// startSearch kicks off a bulk search for the term in the URL. The work
// happens in the background; 202 means "accepted", not "finished".
func (s *Server) startSearch(c echo.Context) error {
	term := strings.TrimSpace(c.Param("term"))
	if term == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültiger Suchbegriff übermittelt."})
	}
	if s.cfg.APIKey == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Google Maps API Key nicht konfiguriert."})
	}

	run, started := s.adoptRun(func() *search.Run {
		return s.runner.Start(term, s.cfg.APIKey)
	})
	if !started {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Es läuft bereits eine Suche."})
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"run_id":  run.ID,
		"message": fmt.Sprintf("Suche für \"%s\" gestartet.", term),
	})
}

// searchStatus streams the current run's progress events via SSE. Ordinary
// events go out as data lines, FEHLER events as an "error" event, and the
// DONE sentinel closes the stream after a final farewell line.
func (s *Server) searchStatus(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "retry: %d\n", sseRetryMillis)
	fmt.Fprintf(w, "data: Verbindung hergestellt. Warte auf Statusmeldungen...\n\n")
	w.Flush()

	run := s.activeRun()
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	var events <-chan string
	if run != nil {
		events = run.Events()
	}

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-ticker.C:
			fmt.Fprintf(w, "retry: %d\n", sseRetryMillis)
			fmt.Fprintf(w, ": keep-alive\n\n")
			w.Flush()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev == search.DoneToken {
				fmt.Fprintf(w, "data: DONE\n\n")
				fmt.Fprintf(w, "data: Suche abgeschlossen. Die Verbindung wird jetzt geschlossen.\n\n")
				w.Flush()
				return nil
			}
			if search.IsError(ev) {
				fmt.Fprintf(w, "event: error\ndata: %s\n\n", ev)
			} else {
				fmt.Fprintf(w, "data: %s\n\n", ev)
			}
			w.Flush()
		}
	}
}
