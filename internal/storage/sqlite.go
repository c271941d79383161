// Package storage provides SQLite-based persistence for save games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNoSave is returned when the requested slot holds no save.
var ErrNoSave = errors.New("storage: no save in slot")

// Store manages the SQLite database connection for save persistence.
type Store struct {
	db *sql.DB
}

// SaveEntry is one stored save game. Data holds the encoded dynamic
// simulation state; the other columns are listing metadata.
type SaveEntry struct {
	Slot      string
	LevelID   string
	Tics      uint64
	Data      []byte
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			tics INTEGER NOT NULL DEFAULT 0,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_saves_level_id ON saves(level_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put writes a save into a slot, replacing any save already there.
func (s *Store) Put(slot, levelID string, tics uint64, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO saves (slot, level_id, tics, data, created_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   level_id = excluded.level_id,
		   tics = excluded.tics,
		   data = excluded.data,
		   created_at = excluded.created_at`,
		slot, levelID, tics, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot put save: %w", err)
	}
	return nil
}

// Get retrieves the save in a slot, including its data blob.
// Returns ErrNoSave when the slot is empty.
func (s *Store) Get(slot string) (*SaveEntry, error) {
	var e SaveEntry
	var createdAt any
	err := s.db.QueryRow(
		`SELECT slot, level_id, tics, data, created_at
		 FROM saves
		 WHERE slot = ?`,
		slot,
	).Scan(&e.Slot, &e.LevelID, &e.Tics, &e.Data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNoSave, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query save: %w", err)
	}
	e.CreatedAt = parseCreatedAt(createdAt)
	return &e, nil
}

// List retrieves the metadata of every stored save, newest first.
// The data blobs are not loaded.
func (s *Store) List() ([]SaveEntry, error) {
	rows, err := s.db.Query(
		`SELECT slot, level_id, tics, created_at
		 FROM saves
		 ORDER BY created_at DESC, slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var entries []SaveEntry
	for rows.Next() {
		var e SaveEntry
		var createdAt any
		if err := rows.Scan(&e.Slot, &e.LevelID, &e.Tics, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseCreatedAt(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Delete removes the save in a slot. Deleting an empty slot is not an
// error.
func (s *Store) Delete(slot string) error {
	if _, err := s.db.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	return nil
}

// parseCreatedAt handles the driver returning either time.Time or a
// datetime string.
func parseCreatedAt(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
