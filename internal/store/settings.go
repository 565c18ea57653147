package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Setting keys.
const (
	// KeyActiveRange holds the JSON-encoded Range in use when the app last saved.
	KeyActiveRange = "active_range"
)

// SettingsRepository reads and writes key/value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value for key, or ErrNotFound.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set inserts or replaces the value for key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Delete removes key. Missing keys are not an error.
func (r *SettingsRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// ActiveRange returns the saved active range, or ErrNotFound.
func (r *SettingsRepository) ActiveRange() (Range, error) {
	raw, err := r.Get(KeyActiveRange)
	if err != nil {
		return Range{}, err
	}

	var rng Range
	if err := json.Unmarshal([]byte(raw), &rng); err != nil {
		return Range{}, fmt.Errorf("decode %s: %w", KeyActiveRange, err)
	}
	return rng, nil
}

// SetActiveRange saves the active range.
func (r *SettingsRepository) SetActiveRange(rng Range) error {
	data, err := json.Marshal(rng)
	if err != nil {
		return err
	}
	return r.Set(KeyActiveRange, string(data))
}
