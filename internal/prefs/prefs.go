// Package prefs holds client-side preference storage. Session preferences live
// for the lifetime of the process; durable preferences are persisted per profile.
package prefs

import (
	"sync"

	"github.com/matheus3301/mchat/internal/store"
)

// KeyTimezone is the session-scoped timezone preference.
const KeyTimezone = "user_timezone"

// Store is a string key/value preference store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Session is an in-memory store that is discarded when the client exits.
type Session struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSession creates an empty session store.
func NewSession() *Session {
	return &Session{values: make(map[string]string)}
}

func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// Durable persists preferences in the profile's SQLite database.
type Durable struct {
	db *store.DB
}

// NewDurable wraps a migrated prefs database.
func NewDurable(db *store.DB) *Durable {
	return &Durable{db: db}
}

// Get returns the stored value. Read errors are reported as unset.
func (d *Durable) Get(key string) (string, bool) {
	v, ok, err := d.db.GetPref(key)
	if err != nil {
		return "", false
	}
	return v, ok
}

func (d *Durable) Set(key, value string) error {
	return d.db.SetPref(key, value)
}

// Bool reads a "true"/"false" preference, returning def when unset.
func Bool(s Store, key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	return v == "true"
}

// SetBool stores a boolean preference.
func SetBool(s Store, key string, v bool) error {
	if v {
		return s.Set(key, "true")
	}
	return s.Set(key, "false")
}
