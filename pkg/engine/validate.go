package engine

import (
	"strings"

	"github.com/modforge/modforge/pkg/errors"
	"github.com/modforge/modforge/pkg/mods"
)

// badPathChars are characters that cannot appear in a filesystem path on
// any supported platform. Group names become file names, so they are
// stripped before validation.
const badPathChars = `<>:"/\|?*`

// SanitizeName strips characters illegal in a filesystem path and
// surrounding whitespace
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 32 || strings.ContainsRune(badPathChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// validateGroupName checks a candidate group name for the mod. self is the
// index of the group being renamed, or -1 for a new group; the collision
// check skips it so a group can keep its own name.
func validateGroupName(m *mods.Mod, self int, name string) error {
	sanitized := SanitizeName(name)
	if sanitized == "" {
		return errors.New(errors.ErrNameInvalid, "group name is empty after removing invalid path characters").
			WithDetail("mod", m.Name).
			WithDetail("name", name)
	}

	lowered := strings.ToLower(sanitized)
	for i, g := range m.Groups {
		if i == self {
			continue
		}
		if strings.ToLower(SanitizeName(g.Name())) == lowered {
			return errors.Newf(errors.ErrNameTaken, "group name %q collides with existing group %q", name, g.Name()).
				WithDetail("mod", m.Name).
				WithDetail("name", name)
		}
	}
	return nil
}
