// Package persist owns the on-disk representation of a mod's option
// structure: one TOML file per group under the mod's storage root, a YAML
// file for mod-level metadata, and an XML manifest for exchanging metadata
// edits with external tools.
package persist

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/errors"
	"github.com/modforge/modforge/pkg/logging"
	"github.com/modforge/modforge/pkg/mods"
)

const (
	groupFilePrefix = "group_"
	groupFileSuffix = ".toml"

	// MetaFileName is the mod-level metadata file under the storage root
	MetaFileName = "mod.yaml"
)

// DirStore persists group definitions as TOML files named
// group_NNN_<slug>.toml under the mod's base path. The index prefix keeps
// group order stable across loads.
type DirStore struct {
	fs     discovery.FS
	logger zerolog.Logger
}

// NewDirStore creates a store over the given filesystem
func NewDirStore(fsys discovery.FS) *DirStore {
	return &DirStore{
		fs:     fsys,
		logger: logging.GetLogger("persist"),
	}
}

// GroupFileName returns the file name for the group at groupIdx
func GroupFileName(groupIdx int, name string) string {
	return fmt.Sprintf("%s%03d_%s%s", groupFilePrefix, groupIdx, fileSlug(name), groupFileSuffix)
}

// IsDefinitionFile reports whether a root-level file name belongs to the
// mod's own definition files rather than its content
func IsDefinitionFile(name string) bool {
	if name == MetaFileName {
		return true
	}
	return strings.HasPrefix(name, groupFilePrefix) && strings.HasSuffix(name, groupFileSuffix)
}

// fileSlug turns a group name into a filesystem-friendly fragment
func fileSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r < 32 || strings.ContainsRune(`<>:"/\|?*`, r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SaveGroup writes the definition of the group at groupIdx, removing any
// definition file left over from an earlier rename, move or delete
func (s *DirStore) SaveGroup(m *mods.Mod, groupIdx int) error {
	if groupIdx < 0 || groupIdx >= len(m.Groups) {
		return errors.Newf(errors.ErrIndexRange, "group index %d out of range", groupIdx)
	}
	g := m.Groups[groupIdx]
	fileName := GroupFileName(groupIdx, g.Name())

	s.removeStaleFiles(m)

	data, err := toml.Marshal(encodeGroup(g))
	if err != nil {
		return errors.Wrap(err, errors.ErrPersist, "failed to encode group definition").
			WithDetail("group", g.Name())
	}

	target := filepath.Join(m.BasePath, fileName)
	if err := s.fs.WriteFile(target, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write group definition").
			WithDetail("path", target)
	}

	s.logger.Debug().Str("mod", m.Name).Str("file", fileName).Msg("Saved group definition")
	return nil
}

// DeleteGroupFile removes the backing file of a group still present in the
// mod. Files are matched by index prefix, never by slug: slugs are lossy
// ("A B" and "A_B" both slug to a_b) and must not decide which file dies.
func (s *DirStore) DeleteGroupFile(m *mods.Mod, g mods.Group) error {
	groupIdx := m.GroupIndex(g)
	if groupIdx < 0 {
		return nil
	}

	var lastErr error
	removed := false
	for _, name := range s.definitionFiles(m.BasePath) {
		if idx, ok := fileIndex(name); !ok || idx != groupIdx {
			continue
		}
		if err := s.fs.Remove(filepath.Join(m.BasePath, name)); err != nil {
			lastErr = err
			continue
		}
		removed = true
	}

	if lastErr != nil {
		return errors.Wrap(lastErr, errors.ErrFileDelete, "failed to delete group definition").
			WithDetail("group", g.Name())
	}
	if removed {
		s.logger.Debug().Str("mod", m.Name).Str("group", g.Name()).Msg("Deleted group definition file")
	}
	return nil
}

// removeStaleFiles reconciles the definition files against the mod's current
// group layout. A file is stale when its index no longer exists or when its
// name differs from what the group at that index saves to, which is what a
// rename, move or delete leaves behind.
func (s *DirStore) removeStaleFiles(m *mods.Mod) {
	for _, name := range s.definitionFiles(m.BasePath) {
		idx, ok := fileIndex(name)
		if ok && idx < len(m.Groups) && name == GroupFileName(idx, m.Groups[idx].Name()) {
			continue
		}
		if err := s.fs.Remove(filepath.Join(m.BasePath, name)); err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("failed to remove stale group file")
		}
	}
}

// definitionFiles lists root-level group definition file names
func (s *DirStore) definitionFiles(basePath string) []string {
	entries, err := s.fs.ReadDir(basePath)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsDefinitionFile(entry.Name()) || entry.Name() == MetaFileName {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

// fileIndex extracts the group index of a definition file name
func fileIndex(fileName string) (int, bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(fileName, groupFilePrefix), groupFileSuffix)
	if len(trimmed) < 5 || trimmed[3] != '_' {
		return 0, false
	}
	idx, err := strconv.Atoi(trimmed[:3])
	if err != nil {
		return 0, false
	}
	return idx, true
}
