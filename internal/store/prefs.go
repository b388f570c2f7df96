package store

import (
	"database/sql"
	"time"
)

// Pref keys stored durably per profile.
const (
	PrefSidebarCollapsed = "sidebar_collapsed"
)

// GetPref returns a stored preference value. ok is false when the key is unset.
func (db *DB) GetPref(key string) (value string, ok bool, err error) {
	err = db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetPref inserts or updates a preference value.
func (db *DB) SetPref(key, value string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO prefs (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	return err
}

// DeletePref removes a preference.
func (db *DB) DeletePref(key string) error {
	_, err := db.Exec(`DELETE FROM prefs WHERE key = ?`, key)
	return err
}
