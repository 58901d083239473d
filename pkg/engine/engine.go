// Package engine is the mutation surface for mod configurations. Every
// structural edit to groups and options goes through an Engine operation,
// which validates its inputs, applies the change, and emits exactly one
// change event per observable mutation. A built-in subscriber persists the
// affected group and keeps the mod's HasOptions cache current before any
// external subscriber runs.
package engine

import (
	"github.com/rs/zerolog"

	"github.com/modforge/modforge/pkg/errors"
	"github.com/modforge/modforge/pkg/logging"
	"github.com/modforge/modforge/pkg/meta"
	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/redirect"
)

// GroupStore persists group definitions. The engine does not care about the
// file format; see the persist package for the TOML implementation.
type GroupStore interface {
	// SaveGroup writes the definition of the group at groupIdx
	SaveGroup(m *mods.Mod, groupIdx int) error

	// DeleteGroupFile removes the backing file of a group that is about to
	// be deleted from the mod
	DeleteGroupFile(m *mods.Mod, g mods.Group) error
}

// Engine mutates mod configurations and notifies subscribers of every change
type Engine struct {
	store       GroupStore
	logger      zerolog.Logger
	subscribers []func(Event)
}

// New creates an engine backed by the given store. The persistence and
// HasOptions bookkeeping subscriber is built in and always runs first.
func New(store GroupStore) *Engine {
	return &Engine{
		store:  store,
		logger: logging.GetLogger("engine"),
	}
}

// Subscribe registers a callback invoked after every state-changing
// operation, once the built-in persistence and flag bookkeeping has run
func (e *Engine) Subscribe(fn func(Event)) {
	e.subscribers = append(e.subscribers, fn)
}

// emit runs the built-in subscriber and then every external one. Nothing
// here may fail the mutation that triggered it.
func (e *Engine) emit(ev Event) {
	e.logger.Debug().
		Stringer("kind", ev.Kind).
		Str("mod", ev.Mod.Name).
		Int("group", ev.GroupIdx).
		Int("option", ev.OptionIdx).
		Int("moveTo", ev.MoveTo).
		Msg("option structure changed")

	e.updateHasOptions(ev)
	e.persist(ev)

	for _, fn := range e.subscribers {
		fn(ev)
	}
}

// updateHasOptions keeps the mod's cached flag correct. Group deletion, type
// change, and option deletion can clear it, so those rescan; an added option
// can only set it, so that ORs in the group's current state.
func (e *Engine) updateHasOptions(ev Event) {
	switch ev.Kind {
	case GroupDeleted, GroupTypeChanged, OptionDeleted:
		ev.Mod.ComputeHasOptions()
	case OptionAdded:
		ev.Mod.HasOptions = ev.Mod.HasOptions || ev.Mod.Groups[ev.GroupIdx].IsOption()
	}
}

// persist writes the groups an event touched. A deleted group's file was
// already removed by DeleteGroup itself, but the groups after it changed
// position, as did every group between the endpoints of a move.
func (e *Engine) persist(ev Event) {
	first, last := ev.GroupIdx, ev.GroupIdx
	switch ev.Kind {
	case GroupDeleted:
		first, last = ev.GroupIdx, len(ev.Mod.Groups)-1
	case GroupMoved:
		first, last = ev.GroupIdx, ev.MoveTo
		if first > last {
			first, last = last, first
		}
	}

	for i := first; i <= last && i < len(ev.Mod.Groups); i++ {
		if err := e.store.SaveGroup(ev.Mod, i); err != nil {
			e.logger.Error().
				Err(err).
				Str("mod", ev.Mod.Name).
				Str("group", ev.Mod.Groups[i].Name()).
				Msg("failed to persist group definition")
		}
	}
}

func (e *Engine) groupAt(m *mods.Mod, groupIdx int) (mods.Group, error) {
	if groupIdx < 0 || groupIdx >= len(m.Groups) {
		return nil, errors.Newf(errors.ErrIndexRange, "group index %d out of range", groupIdx).
			WithDetail("mod", m.Name).
			WithDetail("groups", len(m.Groups))
	}
	return m.Groups[groupIdx], nil
}

func (e *Engine) optionAt(m *mods.Mod, groupIdx, optionIdx int) (mods.Group, *mods.Option, error) {
	g, err := e.groupAt(m, groupIdx)
	if err != nil {
		return nil, nil, err
	}
	if optionIdx < 0 || optionIdx >= g.Len() {
		return nil, nil, errors.Newf(errors.ErrIndexRange, "option index %d out of range", optionIdx).
			WithDetail("mod", m.Name).
			WithDetail("group", g.Name()).
			WithDetail("options", g.Len())
	}
	return g, g.OptionAt(optionIdx), nil
}

// AddGroup appends a new empty group with a priority one above the current
// maximum. The name must sanitize to something unique among the mod's groups.
func (e *Engine) AddGroup(m *mods.Mod, kind mods.GroupKind, name string) error {
	if err := validateGroupName(m, -1, name); err != nil {
		e.logger.Warn().Err(err).Str("mod", m.Name).Str("name", name).Msg("rejected group name")
		return err
	}

	var g mods.Group
	switch kind {
	case mods.GroupMulti:
		g = mods.NewMultiGroup(SanitizeName(name))
	default:
		g = mods.NewSingleGroup(SanitizeName(name))
	}
	g.SetPriority(m.MaxGroupPriority() + 1)

	m.Groups = append(m.Groups, g)
	e.emit(groupEvent(GroupAdded, m, len(m.Groups)-1))
	return nil
}

// DeleteGroup removes the group at groupIdx. Its backing file is deleted
// first so the persistence pass never rewrites a group that no longer exists.
func (e *Engine) DeleteGroup(m *mods.Mod, groupIdx int) error {
	g, err := e.groupAt(m, groupIdx)
	if err != nil {
		return err
	}

	if err := e.store.DeleteGroupFile(m, g); err != nil {
		e.logger.Error().
			Err(err).
			Str("mod", m.Name).
			Str("group", g.Name()).
			Msg("failed to delete group definition file")
	}

	m.Groups = append(m.Groups[:groupIdx], m.Groups[groupIdx+1:]...)
	e.emit(groupEvent(GroupDeleted, m, groupIdx))
	return nil
}

// RenameGroup changes a group's display name after validation. Renaming a
// group to its own name is a no-op.
func (e *Engine) RenameGroup(m *mods.Mod, groupIdx int, newName string) error {
	g, err := e.groupAt(m, groupIdx)
	if err != nil {
		return err
	}
	if g.Name() == newName {
		return nil
	}
	if err := validateGroupName(m, groupIdx, newName); err != nil {
		e.logger.Warn().Err(err).Str("mod", m.Name).Str("name", newName).Msg("rejected group name")
		return err
	}
	sanitized := SanitizeName(newName)
	if g.Name() == sanitized {
		return nil
	}

	g.SetName(sanitized)
	e.emit(groupEvent(GroupRenamed, m, groupIdx))
	return nil
}

// MoveGroup repositions a group, keeping every other group's relative order
func (e *Engine) MoveGroup(m *mods.Mod, from, to int) error {
	if _, err := e.groupAt(m, from); err != nil {
		return err
	}
	if to < 0 {
		to = 0
	} else if to >= len(m.Groups) {
		to = len(m.Groups) - 1
	}
	if from == to {
		return nil
	}

	g := m.Groups[from]
	m.Groups = append(m.Groups[:from], m.Groups[from+1:]...)
	m.Groups = append(m.Groups[:to], append([]mods.Group{g}, m.Groups[to:]...)...)

	ev := groupEvent(GroupMoved, m, from)
	ev.MoveTo = to
	e.emit(ev)
	return nil
}

// ChangeGroupType rebuilds a group as the other selection variant
func (e *Engine) ChangeGroupType(m *mods.Mod, groupIdx int, kind mods.GroupKind) error {
	g, err := e.groupAt(m, groupIdx)
	if err != nil {
		return err
	}
	if g.Kind() == kind {
		return nil
	}

	m.Groups[groupIdx] = mods.Convert(g, kind)
	e.emit(groupEvent(GroupTypeChanged, m, groupIdx))
	return nil
}

// ChangeGroupDescription sets a group's description
func (e *Engine) ChangeGroupDescription(m *mods.Mod, groupIdx int, desc string) error {
	g, err := e.groupAt(m, groupIdx)
	if err != nil {
		return err
	}
	if g.Description() == desc {
		return nil
	}

	g.SetDescription(desc)
	e.emit(groupEvent(DisplayChanged, m, groupIdx))
	return nil
}

// ChangeGroupPriority sets a group's priority, used to order groups and
// break conflicts between them
func (e *Engine) ChangeGroupPriority(m *mods.Mod, groupIdx, priority int) error {
	g, err := e.groupAt(m, groupIdx)
	if err != nil {
		return err
	}
	if g.Priority() == priority {
		return nil
	}

	g.SetPriority(priority)
	e.emit(groupEvent(PriorityChanged, m, groupIdx))
	return nil
}

// ChangeOptionPriority sets the per-option priority in a multi group. For a
// single group the priority belongs to the group as a whole, so the call
// delegates to ChangeGroupPriority.
func (e *Engine) ChangeOptionPriority(m *mods.Mod, groupIdx, optionIdx, priority int) error {
	g, _, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}

	multi, ok := g.(*mods.MultiGroup)
	if !ok {
		return e.ChangeGroupPriority(m, groupIdx, priority)
	}
	if !multi.SetOptionPriority(optionIdx, priority) {
		return nil
	}

	e.emit(optionEvent(PriorityChanged, m, groupIdx, optionIdx))
	return nil
}

// RenameOption changes an option's display name. Option names are display
// only and carry no uniqueness requirement.
func (e *Engine) RenameOption(m *mods.Mod, groupIdx, optionIdx int, newName string) error {
	_, o, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}
	if o.Name == newName {
		return nil
	}

	o.Name = newName
	e.emit(optionEvent(DisplayChanged, m, groupIdx, optionIdx))
	return nil
}

// AddOption appends a new empty option with default priority zero
func (e *Engine) AddOption(m *mods.Mod, groupIdx int, name string) error {
	return e.AddExistingOption(m, groupIdx, mods.NewOption(name), 0)
}

// AddExistingOption appends an already-built option at the given priority.
// A group at capacity rejects the option without mutating any state.
func (e *Engine) AddExistingOption(m *mods.Mod, groupIdx int, o *mods.Option, priority int) error {
	g, err := e.groupAt(m, groupIdx)
	if err != nil {
		return err
	}

	switch grp := g.(type) {
	case *mods.SingleGroup:
		err = grp.Insert(o)
	case *mods.MultiGroup:
		err = grp.Insert(o, priority)
	}
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("mod", m.Name).
			Str("group", g.Name()).
			Str("option", o.Name).
			Msg("cannot add option to full group")
		return errors.Wrap(err, errors.ErrCapacity, "cannot add option").
			WithDetail("mod", m.Name).
			WithDetail("group", g.Name()).
			WithDetail("option", o.Name)
	}

	e.emit(optionEvent(OptionAdded, m, groupIdx, g.Len()-1))
	return nil
}

// DeleteOption removes the option at optionIdx from its group
func (e *Engine) DeleteOption(m *mods.Mod, groupIdx, optionIdx int) error {
	g, _, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}

	switch grp := g.(type) {
	case *mods.SingleGroup:
		grp.RemoveAt(optionIdx)
	case *mods.MultiGroup:
		grp.RemoveAt(optionIdx)
	}

	e.emit(optionEvent(OptionDeleted, m, groupIdx, optionIdx))
	return nil
}

// MoveOption repositions an option within its group
func (e *Engine) MoveOption(m *mods.Mod, groupIdx, from, to int) error {
	g, _, err := e.optionAt(m, groupIdx, from)
	if err != nil {
		return err
	}

	var moved bool
	switch grp := g.(type) {
	case *mods.SingleGroup:
		moved = grp.Move(from, to)
	case *mods.MultiGroup:
		moved = grp.Move(from, to)
	}
	if !moved {
		return nil
	}

	ev := optionEvent(OptionMoved, m, groupIdx, from)
	ev.MoveTo = to
	e.emit(ev)
	return nil
}

// SetFile maps one virtual game path in an option's file redirections.
// An empty source clears the mapping.
func (e *Engine) SetFile(m *mods.Mod, groupIdx, optionIdx int, gamePath, source string) error {
	_, o, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}
	if !o.Files.Set(gamePath, source) {
		return nil
	}

	e.emit(optionEvent(OptionFilesChanged, m, groupIdx, optionIdx))
	return nil
}

// SetFiles replaces an option's whole file redirection map
func (e *Engine) SetFiles(m *mods.Mod, groupIdx, optionIdx int, files *redirect.Map) error {
	_, o, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}
	if !o.Files.ReplaceAll(files) {
		return nil
	}

	e.emit(optionEvent(OptionFilesChanged, m, groupIdx, optionIdx))
	return nil
}

// SetFileSwap maps one virtual game path in an option's swap map.
// An empty target clears the swap.
func (e *Engine) SetFileSwap(m *mods.Mod, groupIdx, optionIdx int, gamePath, target string) error {
	_, o, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}
	if !o.Swaps.Set(gamePath, target) {
		return nil
	}

	e.emit(optionEvent(OptionSwapsChanged, m, groupIdx, optionIdx))
	return nil
}

// SetFileSwaps replaces an option's whole swap map
func (e *Engine) SetFileSwaps(m *mods.Mod, groupIdx, optionIdx int, swaps *redirect.Map) error {
	_, o, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}
	if !o.Swaps.ReplaceAll(swaps) {
		return nil
	}

	e.emit(optionEvent(OptionSwapsChanged, m, groupIdx, optionIdx))
	return nil
}

// SetMetaEdit upserts or removes one metadata edit on an option
func (e *Engine) SetMetaEdit(m *mods.Mod, groupIdx, optionIdx int, edit meta.Edit, enabled bool) error {
	_, o, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}

	var changed bool
	if enabled {
		changed = o.Meta.Put(edit)
	} else {
		changed = o.Meta.Remove(edit)
	}
	if !changed {
		return nil
	}

	e.emit(optionEvent(OptionMetaChanged, m, groupIdx, optionIdx))
	return nil
}

// SetMetaEdits replaces an option's whole metadata edit set
func (e *Engine) SetMetaEdits(m *mods.Mod, groupIdx, optionIdx int, edits *meta.Set) error {
	_, o, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}
	if !o.Meta.ReplaceAll(edits) {
		return nil
	}

	e.emit(optionEvent(OptionMetaChanged, m, groupIdx, optionIdx))
	return nil
}

// UpdateOption replaces an option's file map, swap map, and metadata edits
// together, emitting a single event even when all three change
func (e *Engine) UpdateOption(m *mods.Mod, groupIdx, optionIdx int, files, swaps *redirect.Map, edits *meta.Set) error {
	_, o, err := e.optionAt(m, groupIdx, optionIdx)
	if err != nil {
		return err
	}

	o.Files.ReplaceAll(files)
	o.Swaps.ReplaceAll(swaps)
	o.Meta.ReplaceAll(edits)

	e.emit(optionEvent(OptionUpdated, m, groupIdx, optionIdx))
	return nil
}
