package persist

import (
	"path/filepath"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/errors"
	"github.com/modforge/modforge/pkg/logging"
	"github.com/modforge/modforge/pkg/mods"
)

// ModMeta is the YAML shape of the mod-level metadata file
type ModMeta struct {
	Name        string `yaml:"name"`
	Author      string `yaml:"author,omitempty"`
	Description string `yaml:"description,omitempty"`
	Version     string `yaml:"version,omitempty"`
}

// SaveMeta writes the mod-level metadata file
func SaveMeta(fsys discovery.FS, basePath string, m ModMeta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrPersist, "failed to encode mod metadata")
	}
	target := filepath.Join(basePath, MetaFileName)
	if err := fsys.WriteFile(target, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write mod metadata").
			WithDetail("path", target)
	}
	return nil
}

// LoadMeta reads the mod-level metadata file. A missing file yields metadata
// named after the base directory.
func LoadMeta(fsys discovery.FS, basePath string) ModMeta {
	fallback := ModMeta{Name: filepath.Base(basePath)}
	data, err := fsys.ReadFile(filepath.Join(basePath, MetaFileName))
	if err != nil {
		return fallback
	}
	var m ModMeta
	if err := yaml.Unmarshal(data, &m); err != nil || m.Name == "" {
		return fallback
	}
	return m
}

// LoadMod rebuilds a mod from its storage root: metadata from mod.yaml and
// groups from the group definition files, in file name order
func LoadMod(fsys discovery.FS, basePath string) (*mods.Mod, error) {
	logger := logging.GetLogger("persist")

	if _, err := fsys.Stat(basePath); err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "mod storage root does not exist").
			WithDetail("path", basePath)
	}

	metaInfo := LoadMeta(fsys, basePath)
	m := mods.NewMod(metaInfo.Name, basePath)

	entries, err := fsys.ReadDir(basePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read mod storage root").
			WithDetail("path", basePath)
	}

	var groupFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == MetaFileName || !IsDefinitionFile(name) {
			continue
		}
		groupFiles = append(groupFiles, name)
	}
	sort.Strings(groupFiles)

	for _, name := range groupFiles {
		data, err := fsys.ReadFile(filepath.Join(basePath, name))
		if err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("Failed to read group file, skipping")
			continue
		}
		var gf groupFile
		if err := toml.Unmarshal(data, &gf); err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("Failed to parse group file, skipping")
			continue
		}
		if gf.Name == "" {
			logger.Warn().Str("file", name).Msg("Group file has no name, skipping")
			continue
		}
		m.Groups = append(m.Groups, decodeGroup(gf))
	}

	m.ComputeHasOptions()
	logger.Debug().Str("mod", m.Name).Int("groups", len(m.Groups)).Msg("Loaded mod")
	return m, nil
}
