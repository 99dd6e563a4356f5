// ABOUTME: Read and write handlers for search terms and the city registry
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ortsatlas/ortsatlas/internal/storage/sqlite"
)

type termJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type cityJSON struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	SimplifiedName string   `json:"simplified_name,omitempty"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

type addTermRequest struct {
	TermName string `json:"term_name"`
}

func (s *Server) listTerms(c echo.Context) error {
	terms, err := sqlite.NewTermStore(s.db).List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	out := make([]termJSON, 0, len(terms))
	for _, t := range terms {
		out = append(out, termJSON{ID: t.ID, Name: t.Name})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) addTerm(c echo.Context) error {
	var req addTermRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültiger Suchbegriff übermittelt."})
	}
	name := strings.TrimSpace(req.TermName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ungültiger Suchbegriff übermittelt."})
	}

	store := sqlite.NewTermStore(s.db)
	existing, err := store.GetByName(name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if existing != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": fmt.Sprintf("Suchbegriff \"%s\" existiert bereits.", name),
		})
	}

	term, err := store.Create(name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  fmt.Sprintf("Suchbegriff \"%s\" hinzugefügt.", name),
		"new_term": termJSON{ID: term.ID, Name: term.Name},
	})
}

func (s *Server) listCities(c echo.Context) error {
	cities, err := sqlite.NewCityStore(s.db).List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	out := make([]cityJSON, 0, len(cities))
	for _, city := range cities {
		out = append(out, cityJSON{
			ID:             city.ID,
			Name:           city.Name,
			SimplifiedName: city.SimplifiedName,
			Latitude:       city.Latitude,
			Longitude:      city.Longitude,
		})
	}
	return c.JSON(http.StatusOK, out)
}
