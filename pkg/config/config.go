// Package config loads modforge's configuration in three layers: embedded
// defaults, an optional modforge.toml in the mods root, and MODFORGE_*
// environment variables. Later layers win.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/modforge/modforge/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Config is the resolved application configuration
type Config struct {
	Storage  StorageConfig  `koanf:"storage"`
	Registry RegistryConfig `koanf:"registry"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type StorageConfig struct {
	// ModsRoot is the directory holding one subdirectory per mod
	ModsRoot string `koanf:"mods_root"`
}

type RegistryConfig struct {
	// SkipFolders is the default number of leading folder segments dropped
	// when deriving a virtual path from a file's location
	SkipFolders int `koanf:"skip_folders"`
}

type LoggingConfig struct {
	Verbosity int `koanf:"verbosity"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Load resolves the configuration. modsRoot overrides the configured
// storage root when non-empty and is also where the override file is
// looked up; pass "" to use the defaults.
func Load(modsRoot string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	// 2. Override file, if one exists
	searchRoot := modsRoot
	if searchRoot == "" {
		searchRoot = "."
	}
	for _, name := range []string{".modforge.toml", "modforge.toml"} {
		path := filepath.Join(searchRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse configuration file").
				WithDetail("path", path)
		}
		break
	}

	// 3. Environment, MODFORGE_STORAGE_MODS_ROOT style keys are not
	// expressible with a plain underscore split, so double underscores
	// separate sections from keys: MODFORGE_REGISTRY__SKIP_FOLDERS.
	err := k.Load(env.Provider("MODFORGE_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "MODFORGE_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment configuration")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if modsRoot != "" {
		cfg.Storage.ModsRoot = modsRoot
	}
	if cfg.Storage.ModsRoot == "" {
		cfg.Storage.ModsRoot = filepath.Join(xdg.DataHome, "modforge", "mods")
	}
	return &cfg, nil
}
