// Package meta implements the set of structured metadata edits an option can
// carry. Two edits addressing the same target are the same slot: inserting a
// new value for an occupied slot replaces the old value instead of adding a
// second entry.
package meta

import "sort"

// EditKind names the category of metadata an edit targets
type EditKind string

const (
	KindAttribute EditKind = "attribute"
	KindVariant   EditKind = "variant"
	KindScaling   EditKind = "scaling"
)

// Edit is one structured metadata edit. Kind and Target form its identity;
// Value is the payload.
type Edit struct {
	Kind   EditKind
	Target string
	Value  string
}

// Identity is the slot an edit occupies, independent of its payload
type Identity struct {
	Kind   EditKind
	Target string
}

// Identity returns the edit's slot
func (e Edit) Identity() Identity {
	return Identity{Kind: e.Kind, Target: e.Target}
}

// Set is a collection of edits keyed by identity.
// The zero value is not usable; call NewSet.
type Set struct {
	edits map[Identity]Edit
}

// NewSet returns an empty edit set
func NewSet() *Set {
	return &Set{edits: make(map[Identity]Edit)}
}

// FromEdits builds a set from a slice; later duplicates of an identity win
func FromEdits(edits []Edit) *Set {
	s := NewSet()
	for _, e := range edits {
		s.edits[e.Identity()] = e
	}
	return s
}

// Put inserts or replaces the edit occupying its identity slot.
// Returns true when the set's observable content changed.
func (s *Set) Put(e Edit) bool {
	existing, ok := s.edits[e.Identity()]
	if ok && existing == e {
		return false
	}
	s.edits[e.Identity()] = e
	return true
}

// Remove deletes whatever edit occupies e's identity slot.
// Returns true when an edit was removed.
func (s *Set) Remove(e Edit) bool {
	if _, ok := s.edits[e.Identity()]; !ok {
		return false
	}
	delete(s.edits, e.Identity())
	return true
}

// Contains reports whether an edit occupies e's identity slot
func (s *Set) Contains(e Edit) bool {
	_, ok := s.edits[e.Identity()]
	return ok
}

// Get returns the edit occupying the given slot, if any
func (s *Set) Get(id Identity) (Edit, bool) {
	e, ok := s.edits[id]
	return e, ok
}

// ReplaceAll swaps the whole content for other's content.
// Returns false without touching the set when both hold the same edits.
func (s *Set) ReplaceAll(other *Set) bool {
	if s.Equal(other) {
		return false
	}
	s.edits = make(map[Identity]Edit, other.Len())
	for id, e := range other.edits {
		s.edits[id] = e
	}
	return true
}

// Equal reports whether both sets hold exactly the same edits,
// identity and payload included
func (s *Set) Equal(other *Set) bool {
	if other == nil {
		return s.Len() == 0
	}
	if len(s.edits) != len(other.edits) {
		return false
	}
	for id, e := range s.edits {
		if otherEdit, ok := other.edits[id]; !ok || otherEdit != e {
			return false
		}
	}
	return true
}

// Clone returns an independent copy
func (s *Set) Clone() *Set {
	clone := &Set{edits: make(map[Identity]Edit, len(s.edits))}
	for id, e := range s.edits {
		clone.edits[id] = e
	}
	return clone
}

// Len returns the number of occupied slots
func (s *Set) Len() int {
	return len(s.edits)
}

// List returns all edits ordered by kind then target, for stable persistence
func (s *Set) List() []Edit {
	edits := make([]Edit, 0, len(s.edits))
	for _, e := range s.edits {
		edits = append(edits, e)
	}
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].Kind != edits[j].Kind {
			return edits[i].Kind < edits[j].Kind
		}
		return edits[i].Target < edits[j].Target
	})
	return edits
}
