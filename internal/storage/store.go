// Package storage is the durable client state: session token, theme
// preference, and an offline copy of the last known zone list, all in one
// sqlite file under data/.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/smartpark/parking-terminal/internal/models"
)

const (
	keyToken = "token"
	keyTheme = "theme"
)

// DBPath returns the path to the single shared database
func DBPath() string {
	return filepath.Join("data", "parking-terminal.db")
}

// Store wraps the sqlite database holding client preferences and the zone cache
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the store at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Set pragmas for performance
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// ensureSchema creates the prefs and zone cache tables if they don't exist
func ensureSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS prefs (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS zone_cache (
			zone_id TEXT PRIMARY KEY,
			zone_name TEXT NOT NULL,
			zone_type TEXT,
			district TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			total_capacity INTEGER NOT NULL DEFAULT 0,
			hourly_rate REAL NOT NULL DEFAULT 0,
			operating_hours TEXT,
			current_occupancy INTEGER NOT NULL DEFAULT 0,
			current_availability REAL NOT NULL DEFAULT 100
		);
		CREATE INDEX IF NOT EXISTS idx_zone_cache_district ON zone_cache(district);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) pref(key string) (string, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM prefs WHERE key = ?", key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading pref %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setPref(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO prefs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("writing pref %s: %w", key, err)
	}
	return nil
}

func (s *Store) clearPref(key string) error {
	if _, err := s.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("clearing pref %s: %w", key, err)
	}
	return nil
}

// Token returns the persisted session token, or "" when none is stored
func (s *Store) Token() (string, error) { return s.pref(keyToken) }

// SaveToken persists the session token
func (s *Store) SaveToken(token string) error { return s.setPref(keyToken, token) }

// ClearToken removes the persisted session token
func (s *Store) ClearToken() error { return s.clearPref(keyToken) }

// Theme returns the persisted theme preference, defaulting to "system"
func (s *Store) Theme() (string, error) {
	theme, err := s.pref(keyTheme)
	if err != nil {
		return "", err
	}
	if theme == "" {
		theme = "system"
	}
	return theme, nil
}

// SaveTheme persists the theme preference
func (s *Store) SaveTheme(theme string) error { return s.setPref(keyTheme, theme) }

// CacheZones replaces the offline zone cache with the given zone list
func (s *Store) CacheZones(zones []models.Zone) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("starting zone cache update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM zone_cache"); err != nil {
		return fmt.Errorf("clearing zone cache: %w", err)
	}
	for _, z := range zones {
		_, err := tx.NamedExec(`
			INSERT INTO zone_cache (
				zone_id, zone_name, zone_type, district, latitude, longitude,
				total_capacity, hourly_rate, operating_hours,
				current_occupancy, current_availability
			) VALUES (
				:zone_id, :zone_name, :zone_type, :district, :latitude, :longitude,
				:total_capacity, :hourly_rate, :operating_hours,
				:current_occupancy, :current_availability
			)`, z)
		if err != nil {
			return fmt.Errorf("caching zone %s: %w", z.ZoneID, err)
		}
	}
	return tx.Commit()
}

// CachedZones returns the offline zone cache, empty when never populated
func (s *Store) CachedZones() ([]models.Zone, error) {
	var zones []models.Zone
	err := s.db.Select(&zones, `
		SELECT zone_id, zone_name, zone_type, district, latitude, longitude,
		       total_capacity, hourly_rate, operating_hours,
		       current_occupancy, current_availability
		FROM zone_cache ORDER BY zone_id`)
	if err != nil {
		return nil, fmt.Errorf("reading zone cache: %w", err)
	}
	return zones, nil
}
