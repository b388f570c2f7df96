// Package search filters the conversation list by its visible text.
package search

import (
	"strings"
	"sync"
)

// Match reports whether text contains term, ignoring case. An empty term
// matches everything.
func Match(text, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}

// Filter returns, for each row, whether it stays visible under term.
func Filter(rows []string, term string) []bool {
	visible := make([]bool, len(rows))
	needle := strings.ToLower(term)
	for i, row := range rows {
		visible[i] = needle == "" || strings.Contains(strings.ToLower(row), needle)
	}
	return visible
}

// Manager remembers the active term so re-rendered lists stay filtered.
type Manager struct {
	mu   sync.RWMutex
	term string
}

// NewManager creates a Manager with no active term.
func NewManager() *Manager {
	return &Manager{}
}

// SetTerm replaces the active term.
func (m *Manager) SetTerm(term string) {
	m.mu.Lock()
	m.term = term
	m.mu.Unlock()
}

// Term returns the active term.
func (m *Manager) Term() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.term
}

// Clear drops the active term.
func (m *Manager) Clear() {
	m.SetTerm("")
}

// Visible returns the indexes of rows matching the active term.
func (m *Manager) Visible(rows []string) []int {
	mask := Filter(rows, m.Term())
	out := make([]int, 0, len(rows))
	for i, ok := range mask {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
