// Package redirect implements the path redirection map used by mod options:
// a mapping from a virtual game path to the concrete file that replaces it.
package redirect

import "sort"

// Map associates virtual game paths with concrete source paths.
// The zero value is not usable; call New.
type Map struct {
	entries map[string]string
}

// New returns an empty redirection map
func New() *Map {
	return &Map{entries: make(map[string]string)}
}

// FromPairs builds a map from game-path/source pairs, mostly for tests
// and persistence loading. Empty sources are skipped.
func FromPairs(pairs map[string]string) *Map {
	m := New()
	for gamePath, source := range pairs {
		if source != "" {
			m.entries[gamePath] = source
		}
	}
	return m
}

// Set maps gamePath to source. An empty source removes the mapping.
// Returns true when the map's observable content changed.
func (m *Map) Set(gamePath, source string) bool {
	existing, ok := m.entries[gamePath]
	if source == "" {
		if !ok {
			return false
		}
		delete(m.entries, gamePath)
		return true
	}
	if ok && existing == source {
		return false
	}
	m.entries[gamePath] = source
	return true
}

// Get returns the source mapped to gamePath, if any
func (m *Map) Get(gamePath string) (string, bool) {
	source, ok := m.entries[gamePath]
	return source, ok
}

// ReplaceAll swaps the whole content for other's content.
// Returns false without touching the map when both are structurally equal.
func (m *Map) ReplaceAll(other *Map) bool {
	if m.Equal(other) {
		return false
	}
	m.entries = make(map[string]string, other.Len())
	for gamePath, source := range other.entries {
		m.entries[gamePath] = source
	}
	return true
}

// Equal reports structural equality with other
func (m *Map) Equal(other *Map) bool {
	if other == nil {
		return m.Len() == 0
	}
	if len(m.entries) != len(other.entries) {
		return false
	}
	for gamePath, source := range m.entries {
		if otherSource, ok := other.entries[gamePath]; !ok || otherSource != source {
			return false
		}
	}
	return true
}

// Clone returns an independent copy
func (m *Map) Clone() *Map {
	clone := &Map{entries: make(map[string]string, len(m.entries))}
	for gamePath, source := range m.entries {
		clone.entries[gamePath] = source
	}
	return clone
}

// Len returns the number of mappings
func (m *Map) Len() int {
	return len(m.entries)
}

// Paths returns all virtual game paths in sorted order
func (m *Map) Paths() []string {
	paths := make([]string, 0, len(m.entries))
	for gamePath := range m.entries {
		paths = append(paths, gamePath)
	}
	sort.Strings(paths)
	return paths
}

// Each calls fn for every mapping in sorted game-path order
func (m *Map) Each(fn func(gamePath, source string)) {
	for _, gamePath := range m.Paths() {
		fn(gamePath, m.entries[gamePath])
	}
}
