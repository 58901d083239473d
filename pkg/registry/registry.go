// Package registry tracks the files physically present under a mod's
// storage root and their association to options, and stages file
// redirection edits for one option at a time. Staged edits only reach the
// option on an explicit Apply; Revert discards them.
package registry

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/engine"
	"github.com/modforge/modforge/pkg/errors"
	"github.com/modforge/modforge/pkg/fsops"
	"github.com/modforge/modforge/pkg/logging"
	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/redirect"
)

// Usage is one (option, virtual path) pair referencing a registry file
type Usage struct {
	GroupIdx  int
	OptionIdx int
	GamePath  string
}

// Entry is one file under the mod's storage root together with everything
// that references it
type Entry struct {
	// Path is the concrete file path
	Path string

	// RelPath is the path relative to the storage root
	RelPath string

	// Usages lists every reference across all groups and options; for the
	// option being edited it reflects the staged state, not the persisted one
	Usages []Usage

	// CurrentUsage counts the usages belonging to the option being edited
	CurrentUsage int
}

// Classification describes how a file relates to the option being edited
type Classification int

const (
	// Unused means no option references the file
	Unused Classification = iota
	// OwnedByCurrent means only the option being edited references it
	OwnedByCurrent
	// Shared means at least one other option references it
	Shared
)

func (c Classification) String() string {
	switch c {
	case Unused:
		return "unused"
	case OwnedByCurrent:
		return "owned"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

// Session is the staged-edit working area for one (mod, option) pair.
// Switching options requires applying or reverting first; pending work is
// never discarded silently.
type Session struct {
	engine  *engine.Engine
	lister  discovery.Lister
	deleter fsops.Deleter
	logger  zerolog.Logger

	mod       *mods.Mod
	groupIdx  int
	optionIdx int
	option    *mods.Option

	entries  []Entry
	staged   *redirect.Map
	baseline *redirect.Map
	dirty    bool
}

// NewSession creates a session over the given collaborators
func NewSession(e *engine.Engine, lister discovery.Lister, deleter fsops.Deleter) *Session {
	return &Session{
		engine:  e,
		lister:  lister,
		deleter: deleter,
		logger:  logging.GetLogger("registry"),
	}
}

// Open points the session at an option and rebuilds the registry from disk
func (s *Session) Open(m *mods.Mod, groupIdx, optionIdx int) error {
	option, err := optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}

	s.mod = m
	s.groupIdx = groupIdx
	s.optionIdx = optionIdx
	s.option = option
	s.staged = option.Files.Clone()
	s.baseline = option.Files.Clone()
	s.dirty = false

	return s.Refresh()
}

// Refresh re-lists the storage root and rebuilds all entries, keeping
// staged edits intact
func (s *Session) Refresh() error {
	if s.mod == nil {
		return errors.New(errors.ErrInvalidInput, "session is not open")
	}

	files, err := s.lister.List(s.mod.BasePath)
	if err != nil {
		return err
	}

	s.entries = make([]Entry, len(files))
	for i, f := range files {
		s.entries[i] = Entry{Path: f.Path, RelPath: f.RelPath}
	}
	s.rebuildUsages()

	s.logger.Debug().
		Str("mod", s.mod.Name).
		Int("files", len(s.entries)).
		Msg("Rebuilt file registry")
	return nil
}

// SetCurrent switches the session to another option of the same mod.
// Pending staged edits must be applied or reverted first.
func (s *Session) SetCurrent(groupIdx, optionIdx int) error {
	if s.mod == nil {
		return errors.New(errors.ErrInvalidInput, "session is not open")
	}
	if s.dirty {
		return errors.New(errors.ErrSessionDirty, "staged edits pending, apply or revert before switching options").
			WithDetail("mod", s.mod.Name)
	}
	option, err := optionAt(s.mod, groupIdx, optionIdx)
	if err != nil {
		return err
	}

	s.groupIdx = groupIdx
	s.optionIdx = optionIdx
	s.option = option
	s.staged = option.Files.Clone()
	s.baseline = option.Files.Clone()
	s.rebuildUsages()
	return nil
}

// Entries returns the current registry content
func (s *Session) Entries() []Entry {
	return s.entries
}

// Dirty reports whether staged edits are pending
func (s *Session) Dirty() bool {
	return s.dirty
}

// Staged returns a copy of the staged redirection map
func (s *Session) Staged() *redirect.Map {
	return s.staged.Clone()
}

// CurrentPaths returns the staged virtual paths mapping to the file at
// fileIdx, sorted
func (s *Session) CurrentPaths(fileIdx int) []string {
	entry := s.entries[fileIdx]
	var paths []string
	s.staged.Each(func(gamePath, source string) {
		if source == entry.Path {
			paths = append(paths, gamePath)
		}
	})
	sort.Strings(paths)
	return paths
}

// SetGamePath stages an edit to the file at fileIdx. pathIdx addresses one
// of the file's staged virtual paths to re-key; -1 adds a new mapping. An
// empty newPath removes the addressed mapping.
func (s *Session) SetGamePath(fileIdx, pathIdx int, newPath string) error {
	if err := s.checkFileIdx(fileIdx); err != nil {
		return err
	}
	entry := s.entries[fileIdx]

	changed := false
	if pathIdx >= 0 {
		paths := s.CurrentPaths(fileIdx)
		if pathIdx >= len(paths) {
			return errors.Newf(errors.ErrIndexRange, "path index %d out of range", pathIdx).
				WithDetail("file", entry.RelPath).
				WithDetail("paths", len(paths))
		}
		old := paths[pathIdx]
		if old == newPath {
			return nil
		}
		changed = s.staged.Set(old, "")
		if newPath != "" {
			changed = s.staged.Set(newPath, entry.Path) || changed
		}
	} else if newPath != "" {
		changed = s.staged.Set(newPath, entry.Path)
	}

	if changed {
		s.dirty = true
		s.rebuildUsages()
	}
	return nil
}

// AddPathsToSelected stages a mapping for every selected file that has none
// under the current option, deriving the virtual path from the file's
// relative path with its first skipFolders segments dropped
func (s *Session) AddPathsToSelected(fileIdxs []int, skipFolders int) error {
	changed := false
	for _, fileIdx := range fileIdxs {
		if err := s.checkFileIdx(fileIdx); err != nil {
			return err
		}
		entry := s.entries[fileIdx]
		if len(s.CurrentPaths(fileIdx)) > 0 {
			continue
		}
		gamePath := discovery.TrimSegments(entry.RelPath, skipFolders)
		changed = s.staged.Set(gamePath, entry.Path) || changed
	}

	if changed {
		s.dirty = true
		s.rebuildUsages()
	}
	return nil
}

// RemovePathsFromSelected stages removal of every mapping the current
// option holds for the selected files
func (s *Session) RemovePathsFromSelected(fileIdxs []int) error {
	changed := false
	for _, fileIdx := range fileIdxs {
		if err := s.checkFileIdx(fileIdx); err != nil {
			return err
		}
		for _, gamePath := range s.CurrentPaths(fileIdx) {
			changed = s.staged.Set(gamePath, "") || changed
		}
	}

	if changed {
		s.dirty = true
		s.rebuildUsages()
	}
	return nil
}

// DeleteFiles removes the selected files from storage. The deletion is
// irreversible and mappings are not healed automatically; a mapping left
// pointing at a deleted file keeps showing in the usage data until edited.
// Returns how many deletions failed.
func (s *Session) DeleteFiles(fileIdxs []int) (int, error) {
	paths := make([]string, 0, len(fileIdxs))
	for _, fileIdx := range fileIdxs {
		if err := s.checkFileIdx(fileIdx); err != nil {
			return 0, err
		}
		paths = append(paths, s.entries[fileIdx].Path)
	}

	failed := s.deleter.Delete(paths)
	if err := s.Refresh(); err != nil {
		return failed, err
	}
	return failed, nil
}

// Apply commits the staged map into the option through the mutation engine.
// Returns the number of staged changes that could not be applied, which is
// zero unless the option is no longer part of the mod.
func (s *Session) Apply() int {
	if s.mod == nil {
		return 0
	}

	groupIdx, optionIdx, ok := s.locateOption()
	if !ok {
		unapplied := diffCount(s.staged, s.baseline)
		s.logger.Warn().
			Str("mod", s.mod.Name).
			Int("unapplied", unapplied).
			Msg("Target option no longer present, staged edits not applied")
		return unapplied
	}

	if err := s.engine.SetFiles(s.mod, groupIdx, optionIdx, s.staged); err != nil {
		return diffCount(s.staged, s.baseline)
	}

	s.groupIdx = groupIdx
	s.optionIdx = optionIdx
	s.baseline = s.staged.Clone()
	s.dirty = false
	s.rebuildUsages()
	return 0
}

// Revert discards all staged edits, reloading from the option's state
func (s *Session) Revert() {
	if s.option == nil {
		return
	}
	s.staged = s.option.Files.Clone()
	s.baseline = s.option.Files.Clone()
	s.dirty = false
	s.rebuildUsages()
}

// Classify reports how the file at fileIdx relates to the current option
func (s *Session) Classify(fileIdx int) Classification {
	entry := s.entries[fileIdx]
	if len(entry.Usages) == 0 {
		return Unused
	}
	if entry.CurrentUsage == len(entry.Usages) {
		return OwnedByCurrent
	}
	return Shared
}

// rebuildUsages recomputes every entry's usage list. The option being
// edited contributes its staged state; all other options contribute their
// persisted redirection maps.
func (s *Session) rebuildUsages() {
	bySource := make(map[string][]int, len(s.entries))
	for i := range s.entries {
		s.entries[i].Usages = nil
		s.entries[i].CurrentUsage = 0
		bySource[s.entries[i].Path] = append(bySource[s.entries[i].Path], i)
	}

	record := func(groupIdx, optionIdx int, files *redirect.Map, current bool) {
		files.Each(func(gamePath, source string) {
			for _, i := range bySource[source] {
				s.entries[i].Usages = append(s.entries[i].Usages, Usage{
					GroupIdx:  groupIdx,
					OptionIdx: optionIdx,
					GamePath:  gamePath,
				})
				if current {
					s.entries[i].CurrentUsage++
				}
			}
		})
	}

	for gi, g := range s.mod.Groups {
		for oi := 0; oi < g.Len(); oi++ {
			o := g.OptionAt(oi)
			if o == s.option {
				record(gi, oi, s.staged, true)
				continue
			}
			record(gi, oi, o.Files, false)
		}
	}
}

// locateOption finds the edited option's current indices, tolerating group
// and option moves since the session opened
func (s *Session) locateOption() (int, int, bool) {
	for gi, g := range s.mod.Groups {
		for oi := 0; oi < g.Len(); oi++ {
			if g.OptionAt(oi) == s.option {
				return gi, oi, true
			}
		}
	}
	return 0, 0, false
}

func (s *Session) checkFileIdx(fileIdx int) error {
	if fileIdx < 0 || fileIdx >= len(s.entries) {
		return errors.Newf(errors.ErrIndexRange, "file index %d out of range", fileIdx).
			WithDetail("files", len(s.entries))
	}
	return nil
}

func optionAt(m *mods.Mod, groupIdx, optionIdx int) (*mods.Option, error) {
	if groupIdx < 0 || groupIdx >= len(m.Groups) {
		return nil, errors.Newf(errors.ErrIndexRange, "group index %d out of range", groupIdx).
			WithDetail("mod", m.Name)
	}
	g := m.Groups[groupIdx]
	if optionIdx < 0 || optionIdx >= g.Len() {
		return nil, errors.Newf(errors.ErrIndexRange, "option index %d out of range", optionIdx).
			WithDetail("mod", m.Name).
			WithDetail("group", g.Name())
	}
	return g.OptionAt(optionIdx), nil
}

// diffCount counts the keys on which two maps disagree
func diffCount(a, b *redirect.Map) int {
	count := 0
	a.Each(func(gamePath, source string) {
		if other, ok := b.Get(gamePath); !ok || other != source {
			count++
		}
	})
	b.Each(func(gamePath string, _ string) {
		if _, ok := a.Get(gamePath); !ok {
			count++
		}
	})
	return count
}
