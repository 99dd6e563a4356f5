// ABOUTME: Tests for database lifecycle and schema initialization
// ABOUTME: Verifies file creation, reopening, and table presence
package sqlite

import (
	"path/filepath"
	"testing"
)

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}

	tables := []string{
		"search_term", "city", "place", "place_type",
		"place_search", "rating_history", "opening_hours", "review",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow(`
			SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?
		`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenReopensExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := NewTermStore(db).Create("Bäckerei"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = db.Close() }()

	term, err := NewTermStore(db).GetByName("Bäckerei")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if term == nil {
		t.Error("term lost after reopen")
	}
}
