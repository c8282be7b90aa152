// Package store persists per-arena zone configuration between restarts.
// Game state itself is never persisted; only the configuration documents
// that seed new games live here.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the sqlite connection holding zone-map documents.
type Store struct {
	db *sql.DB
}

// Open connects to the database at path, creating it if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate brings the schema up to date. Safe to run on every start.
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS zone_maps (
			arena TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveZoneMap upserts the arena's zone-map document.
func (s *Store) SaveZoneMap(arena string, document []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO zone_maps (arena, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(arena) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		arena, string(document), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save zone map for %s: %w", arena, err)
	}
	return nil
}

// LoadZoneMap returns the stored document for the arena, or nil when the
// arena has never been configured.
func (s *Store) LoadZoneMap(arena string) ([]byte, error) {
	var document string
	err := s.db.QueryRow(
		`SELECT document FROM zone_maps WHERE arena = ?`, arena).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load zone map for %s: %w", arena, err)
	}
	return []byte(document), nil
}

// ListArenas returns every configured arena in alphabetical order.
func (s *Store) ListArenas() ([]string, error) {
	rows, err := s.db.Query(`SELECT arena FROM zone_maps ORDER BY arena`)
	if err != nil {
		return nil, fmt.Errorf("list arenas: %w", err)
	}
	defer rows.Close()

	var arenas []string
	for rows.Next() {
		var arena string
		if err := rows.Scan(&arena); err != nil {
			return nil, fmt.Errorf("scan arena: %w", err)
		}
		arenas = append(arenas, arena)
	}
	return arenas, rows.Err()
}
