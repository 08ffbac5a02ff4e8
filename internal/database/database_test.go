package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRejectsUnusablePath(t *testing.T) {
	// A directory where the database file should be makes the first
	// statement fail; New must report that, not panic or leak.
	path := filepath.Join(t.TempDir(), "db")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	if _, err := New(path); err == nil {
		t.Fatal("New() on a directory path succeeded, want error")
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening the same file must not rerun recorded migrations.
	second, err := New(path)
	if err != nil {
		t.Fatalf("New() on existing database error = %v", err)
	}
	defer second.Close()

	var count int
	if err := second.DB().QueryRow(
		`SELECT COUNT(*) FROM _migrations WHERE name = 'initial_schema'`,
	).Scan(&count); err != nil {
		t.Fatalf("querying migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("initial_schema recorded %d times, want 1", count)
	}
}
