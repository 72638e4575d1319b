// Package store persists the list of saved databases and the one used last.
//
// The backing file is a small JSON document:
//
//	{
//	  "saved_databases": [{"path": "...", "name": "...", "color": 3}],
//	  "last_connected": {"path": "...", "name": "...", "color": 3}
//	}
//
// A missing or malformed file is treated as empty state.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/johan-st/sqlite-viewer/internal/atomicfile"
)

// Entry is one saved database.
type Entry struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

type state struct {
	Saved []Entry `json:"saved_databases"`
	Last  *Entry  `json:"last_connected,omitempty"`
}

// Store is the saved-database list backed by a JSON file.
type Store struct {
	path  string
	mu    sync.Mutex
	state state
}

// Open loads the store at path. It only fails when the file exists but
// cannot be read; bad JSON is logged and ignored.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read saved databases: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		log.Warn("ignoring malformed saved database file", "path", path, "err", err)
		return s, nil
	}
	s.state = st
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// List returns a copy of the saved entries in insertion order.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Saved)
}

// Get returns the saved entry for path.
func (s *Store) Get(path string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.state.Saved {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// Add saves e, replacing any entry with the same path. The entry moves to
// the end of the list.
func (s *Store) Add(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Saved = slices.DeleteFunc(s.state.Saved, func(x Entry) bool { return x.Path == e.Path })
	s.state.Saved = append(s.state.Saved, e)
	return s.save()
}

// Remove deletes the entry for path. Removing an unknown path is not an
// error. If it was the last connected database that is cleared too.
func (s *Store) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Saved = slices.DeleteFunc(s.state.Saved, func(x Entry) bool { return x.Path == path })
	if s.state.Last != nil && s.state.Last.Path == path {
		s.state.Last = nil
	}
	return s.save()
}

// Last returns the most recently connected database.
func (s *Store) Last() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Last == nil {
		return Entry{}, false
	}
	return *s.state.Last, true
}

// SetLast records e as the most recently connected database.
func (s *Store) SetLast(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Last = &e
	return s.save()
}

// ClearLast forgets the most recently connected database.
func (s *Store) ClearLast() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Last = nil
	return s.save()
}

func (s *Store) save() error {
	if s.state.Saved == nil {
		s.state.Saved = []Entry{}
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode saved databases: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write saved databases: %w", err)
	}
	return nil
}
