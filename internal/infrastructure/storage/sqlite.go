package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection shared by the stores.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if necessary) the sqlite database at dbPath and
// ensures the schema exists. Use ":memory:" for an ephemeral database.
func Open(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection avoids SQLITE_BUSY under concurrent writes and
	// keeps ":memory:" databases from fragmenting across the pool.
	db.SetMaxOpenConns(1)

	s := &DB{sql: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Ping verifies the connection is alive.
func (d *DB) Ping() error {
	return d.sql.Ping()
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS consumers (
        id TEXT PRIMARY KEY,
        email TEXT NOT NULL UNIQUE,
        name TEXT NOT NULL DEFAULT '',
        diet_type TEXT NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS consumer_allergies (
        consumer_id TEXT NOT NULL,
        term TEXT NOT NULL,
        PRIMARY KEY (consumer_id, term),
        FOREIGN KEY (consumer_id) REFERENCES consumers(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS consumer_dislikes (
        consumer_id TEXT NOT NULL,
        term TEXT NOT NULL,
        PRIMARY KEY (consumer_id, term),
        FOREIGN KEY (consumer_id) REFERENCES consumers(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS meals (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        meal_name TEXT NOT NULL,
        img_url TEXT NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS meal_ingredients (
        meal_id INTEGER NOT NULL,
        position INTEGER NOT NULL,
        ingredient TEXT NOT NULL,
        PRIMARY KEY (meal_id, position),
        FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS meal_plans (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        consumer_id TEXT NOT NULL,
        week_start_date TEXT NOT NULL,
        FOREIGN KEY (consumer_id) REFERENCES consumers(id)
    );

    CREATE TABLE IF NOT EXISTS meal_plan_meals (
        plan_id INTEGER NOT NULL,
        position INTEGER NOT NULL,
        meal_id INTEGER NOT NULL,
        PRIMARY KEY (plan_id, position),
        FOREIGN KEY (plan_id) REFERENCES meal_plans(id) ON DELETE CASCADE,
        FOREIGN KEY (meal_id) REFERENCES meals(id)
    );

    CREATE INDEX IF NOT EXISTS idx_consumers_email ON consumers(email);
    CREATE INDEX IF NOT EXISTS idx_plans_consumer_week ON meal_plans(consumer_id, week_start_date);
    `

	if _, err := d.sql.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// dateLayout is how week-start dates are stored; lexicographic order matches
// chronological order.
const dateLayout = "2006-01-02"
