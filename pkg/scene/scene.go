// Package scene holds the named polytopes produced by one evaluation of a
// DSL program, in the order they were defined.
package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/chazu/polytope/pkg/polytope"
)

// EntryID is the hex sha256 of an entry's name.
type EntryID string

// NewEntryID derives the ID of the entry with the given name.
func NewEntryID(name string) EntryID {
	sum := sha256.Sum256([]byte(name))
	return EntryID(hex.EncodeToString(sum[:]))
}

// Short returns the first 8 characters of the ID.
func (id EntryID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// IsZero reports whether the ID is empty.
func (id EntryID) IsZero() bool {
	return id == ""
}

// Entry is one named polytope placed in the scene.
type Entry struct {
	ID       EntryID            `json:"id"`
	Name     string             `json:"name"`
	Polytope *polytope.Polytope `json:"-"`

	// Offset moves the entry's first three coordinates when it is rendered.
	Offset [3]float64 `json:"offset"`
}

// Scene is the result of evaluating a program. Each evaluation builds a
// new scene; callers treat it as read-only once returned.
type Scene struct {
	Entries   map[EntryID]*Entry `json:"entries"`
	Order     []EntryID          `json:"order"`
	NameIndex map[string]EntryID `json:"name_index"`
	Version   uint64             `json:"version"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		Entries:   make(map[EntryID]*Entry),
		NameIndex: make(map[string]EntryID),
	}
}

// Add appends an entry. It does not check for duplicates; Validate does.
func (s *Scene) Add(e *Entry) {
	if e.ID.IsZero() {
		e.ID = NewEntryID(e.Name)
	}
	s.Entries[e.ID] = e
	s.Order = append(s.Order, e.ID)
	if e.Name != "" {
		s.NameIndex[e.Name] = e.ID
	}
}

// Lookup returns the entry with the given name, or nil.
func (s *Scene) Lookup(name string) *Entry {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Entries[id]
}

// MustLookup returns the entry with the given name, or panics.
func (s *Scene) MustLookup(name string) *Entry {
	e := s.Lookup(name)
	if e == nil {
		panic(fmt.Sprintf("scene: no entry named %q", name))
	}
	return e
}

// Get returns the entry with the given ID, or nil.
func (s *Scene) Get(id EntryID) *Entry {
	return s.Entries[id]
}

// All returns the entries in definition order. An ID added twice is
// returned once.
func (s *Scene) All() []*Entry {
	seen := make(map[EntryID]bool, len(s.Order))
	out := make([]*Entry, 0, len(s.Order))
	for _, id := range s.Order {
		e := s.Entries[id]
		if e == nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, e)
	}
	return out
}

// Len returns the number of distinct entries.
func (s *Scene) Len() int {
	return len(s.Entries)
}
