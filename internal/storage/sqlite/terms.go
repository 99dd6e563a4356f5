// ABOUTME: Search term persistence for SQLite
// ABOUTME: Terms are created on first use and immutable thereafter
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ortsatlas/ortsatlas/internal/models"
)

// TermStore handles search term persistence
type TermStore struct {
	db *DB
}

// NewTermStore creates a new TermStore
func NewTermStore(db *DB) *TermStore {
	return &TermStore{db: db}
}

// GetByName returns the term with the given name, or nil when absent.
func (s *TermStore) GetByName(name string) (*models.SearchTerm, error) {
	var term models.SearchTerm
	err := s.db.QueryRow(`
		SELECT term_id, name FROM search_term WHERE name = ?
	`, name).Scan(&term.ID, &term.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query term %q: %w", name, err)
	}
	return &term, nil
}

// Create inserts a new term. Fails when the name already exists.
func (s *TermStore) Create(name string) (*models.SearchTerm, error) {
	res, err := s.db.Exec(`INSERT INTO search_term (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create term %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.SearchTerm{ID: id, Name: name}, nil
}

// GetOrCreate returns the existing term or creates it. The second return
// value reports whether a new term was created.
func (s *TermStore) GetOrCreate(name string) (*models.SearchTerm, bool, error) {
	term, err := s.GetByName(name)
	if err != nil {
		return nil, false, err
	}
	if term != nil {
		return term, false, nil
	}
	created, err := s.Create(name)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// List returns all terms in name order.
func (s *TermStore) List() ([]models.SearchTerm, error) {
	rows, err := s.db.Query(`SELECT term_id, name FROM search_term ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query terms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var terms []models.SearchTerm
	for rows.Next() {
		var term models.SearchTerm
		if err := rows.Scan(&term.ID, &term.Name); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}
