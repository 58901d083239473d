package mods

// Mod is one content package: its identity on disk plus the ordered option
// groups a user can configure.
type Mod struct {
	// Name is the display name of the mod
	Name string

	// BasePath is the mod's storage root on disk
	BasePath string

	// Groups is the ordered sequence of option groups
	Groups []Group

	// HasOptions caches whether any group offers a real choice. It is
	// maintained by the mutation engine and must never be stale after an
	// engine call returns.
	HasOptions bool
}

// NewMod creates an empty mod rooted at basePath
func NewMod(name, basePath string) *Mod {
	return &Mod{Name: name, BasePath: basePath}
}

// ComputeHasOptions scans all groups and refreshes the cached flag
func (m *Mod) ComputeHasOptions() bool {
	m.HasOptions = false
	for _, g := range m.Groups {
		if g.IsOption() {
			m.HasOptions = true
			break
		}
	}
	return m.HasOptions
}

// GroupIndex returns the index of g in the mod, or -1
func (m *Mod) GroupIndex(g Group) int {
	for i, candidate := range m.Groups {
		if candidate == g {
			return i
		}
	}
	return -1
}

// MaxGroupPriority returns the highest priority among the mod's groups,
// or -1 when the mod has none
func (m *Mod) MaxGroupPriority() int {
	max := -1
	for _, g := range m.Groups {
		if g.Priority() > max {
			max = g.Priority()
		}
	}
	return max
}
