package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

// DB returns the underlying *sql.DB instance
func (d *Database) DB() *sql.DB {
	return d.db
}

func New(path string) (*Database, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with a single connection
	dbInstance := &Database{db: db}

	// Run migrations
	if err := dbInstance.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return dbInstance, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Begin starts a new transaction
func (d *Database) Begin() (*sql.Tx, error) {
	return d.db.Begin()
}

// migrate runs the database migrations
func (d *Database) migrate() error {
	// Check if migrations table exists
	var tableExists int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='_migrations'`,
	).Scan(&tableExists)

	if err != nil {
		return fmt.Errorf("failed to check migrations table: %v", err)
	}

	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	// Create migrations table if it doesn't exist
	if tableExists == 0 {
		if _, err := tx.Exec(`
			CREATE TABLE _migrations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				run_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`); err != nil {
			return fmt.Errorf("failed to create migrations table: %v", err)
		}
	}

	// Run migrations in order
	for _, migration := range getMigrations() {
		// Check if migration already ran
		var count int
		err := tx.QueryRow(
			`SELECT COUNT(*) FROM _migrations WHERE name = ?`,
			migration.name,
		).Scan(&count)

		if err != nil {
			return fmt.Errorf("failed to check migration status: %v", err)
		}

		if count == 0 {
			// Run migration
			if _, err := tx.Exec(migration.statement); err != nil {
				return fmt.Errorf("failed to run migration %s: %v", migration.name, err)
			}

			// Record migration
			if _, err := tx.Exec(
				`INSERT INTO _migrations (name) VALUES (?)`,
				migration.name,
			); err != nil {
				return fmt.Errorf("failed to record migration %s: %v", migration.name, err)
			}
		}
	}

	return tx.Commit()
}

type migration struct {
	name      string
	statement string
}

func getMigrations() []migration {
	return []migration{
		{
			name: "initial_schema",
			statement: `
				-- Users table
				CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					email TEXT NOT NULL UNIQUE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);

				-- Events table
				CREATE TABLE IF NOT EXISTS events (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					description TEXT NOT NULL,
					event_date TIMESTAMP NOT NULL,
					location TEXT NOT NULL,
					creator_id TEXT NOT NULL,
					max_attendees INTEGER,
					category TEXT NOT NULL DEFAULT 'Social'
						CHECK (category IN ('Social', 'Business', 'Educational', 'Sports', 'Other')),
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (creator_id) REFERENCES users(id) ON DELETE CASCADE
				);

				CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date);
				CREATE INDEX IF NOT EXISTS idx_events_creator ON events(creator_id);

				-- RSVPs: one row per (user, event), enforced at the store layer
				CREATE TABLE IF NOT EXISTS rsvps (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					event_id TEXT NOT NULL,
					response TEXT NOT NULL CHECK (response IN ('Yes', 'No', 'Maybe')),
					guest_count INTEGER NOT NULL DEFAULT 0 CHECK (guest_count >= 0),
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
					FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
					UNIQUE(user_id, event_id)
				);

				CREATE INDEX IF NOT EXISTS idx_rsvps_event ON rsvps(event_id);
				CREATE INDEX IF NOT EXISTS idx_rsvps_user ON rsvps(user_id);
			`,
		},
		// Add more migrations here as needed
	}
}
