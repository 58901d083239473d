package mods

import (
	"github.com/modforge/modforge/pkg/errors"
)

// GroupCapacity is the hard limit on options per group. Selection state for
// multi groups is stored as a 64-bit flag mask, and external consumers of
// the selection data assume the same bound.
const GroupCapacity = 64

// GroupKind tags the selection mode of a group
type GroupKind string

const (
	// GroupSingle presents exactly one active option at a time
	GroupSingle GroupKind = "single"
	// GroupMulti presents independently toggleable options with per-option priority
	GroupMulti GroupKind = "multi"
)

// Group is a named, prioritized collection of options. The two variants
// diverge in selection shape; mutation operations type-switch on them.
type Group interface {
	Name() string
	SetName(name string)
	Description() string
	SetDescription(desc string)
	Priority() int
	SetPriority(priority int)
	Kind() GroupKind
	Len() int
	OptionAt(i int) *Option
	Options() []*Option

	// IsOption reports whether the group currently offers a real choice
	IsOption() bool
}

type groupBase struct {
	name        string
	description string
	priority    int
}

func (g *groupBase) Name() string              { return g.name }
func (g *groupBase) SetName(name string)       { g.name = name }
func (g *groupBase) Description() string       { return g.description }
func (g *groupBase) SetDescription(desc string) { g.description = desc }
func (g *groupBase) Priority() int             { return g.priority }
func (g *groupBase) SetPriority(priority int)  { g.priority = priority }

// SingleGroup holds an ordered sequence of options of which one is active
type SingleGroup struct {
	groupBase

	// Selected is the index of the active option; 0 when the group is empty
	Selected int

	options []*Option
}

// NewSingleGroup creates an empty single-select group
func NewSingleGroup(name string) *SingleGroup {
	return &SingleGroup{groupBase: groupBase{name: name}}
}

func (g *SingleGroup) Kind() GroupKind      { return GroupSingle }
func (g *SingleGroup) Len() int             { return len(g.options) }
func (g *SingleGroup) OptionAt(i int) *Option { return g.options[i] }

// Options returns a copy of the option sequence
func (g *SingleGroup) Options() []*Option {
	out := make([]*Option, len(g.options))
	copy(out, g.options)
	return out
}

// IsOption reports a real choice: a single-select group with fewer than two
// options has nothing to choose between
func (g *SingleGroup) IsOption() bool {
	return len(g.options) >= 2
}

// Insert appends an option, enforcing the group capacity
func (g *SingleGroup) Insert(o *Option) error {
	if len(g.options) >= GroupCapacity {
		return errors.Newf(errors.ErrCapacity, "group %q is at capacity (%d options)", g.name, GroupCapacity)
	}
	g.options = append(g.options, o)
	return nil
}

// RemoveAt deletes the option at index i, keeping Selected in range
func (g *SingleGroup) RemoveAt(i int) {
	g.options = append(g.options[:i], g.options[i+1:]...)
	if g.Selected > i {
		g.Selected--
	} else if g.Selected >= len(g.options) && g.Selected > 0 {
		g.Selected = len(g.options) - 1
	}
}

// Move repositions the option at from to to, keeping all other options in
// relative order. Returns false when nothing moved.
func (g *SingleGroup) Move(from, to int) bool {
	moved, selected := moveOption(g.options, from, to, g.Selected)
	if moved {
		g.Selected = selected
	}
	return moved
}

// MultiGroup holds an ordered sequence of independently toggleable options,
// each with its own priority for conflict resolution
type MultiGroup struct {
	groupBase

	// Enabled is the bit mask of active options, bit i for option i
	Enabled uint64

	options    []*Option
	priorities []int
}

// NewMultiGroup creates an empty multi-select group
func NewMultiGroup(name string) *MultiGroup {
	return &MultiGroup{groupBase: groupBase{name: name}}
}

func (g *MultiGroup) Kind() GroupKind        { return GroupMulti }
func (g *MultiGroup) Len() int               { return len(g.options) }
func (g *MultiGroup) OptionAt(i int) *Option { return g.options[i] }

// Options returns a copy of the option sequence
func (g *MultiGroup) Options() []*Option {
	out := make([]*Option, len(g.options))
	copy(out, g.options)
	return out
}

// IsOption reports a real choice: any toggleable option is one
func (g *MultiGroup) IsOption() bool {
	return len(g.options) >= 1
}

// OptionPriority returns the priority of the option at index i
func (g *MultiGroup) OptionPriority(i int) int {
	return g.priorities[i]
}

// SetOptionPriority changes the priority of the option at index i.
// Returns false when the priority is already the given value.
func (g *MultiGroup) SetOptionPriority(i, priority int) bool {
	if g.priorities[i] == priority {
		return false
	}
	g.priorities[i] = priority
	return true
}

// Insert appends an option with the given priority, enforcing the capacity
// that the 64-bit enabled mask imposes
func (g *MultiGroup) Insert(o *Option, priority int) error {
	if len(g.options) >= GroupCapacity {
		return errors.Newf(errors.ErrCapacity, "group %q is at capacity (%d options)", g.name, GroupCapacity)
	}
	g.options = append(g.options, o)
	g.priorities = append(g.priorities, priority)
	return nil
}

// RemoveAt deletes the option at index i, collapsing the enabled mask so the
// remaining options keep their flags
func (g *MultiGroup) RemoveAt(i int) {
	g.options = append(g.options[:i], g.options[i+1:]...)
	g.priorities = append(g.priorities[:i], g.priorities[i+1:]...)

	low := g.Enabled & (1<<uint(i) - 1)
	high := g.Enabled >> uint(i+1) << uint(i)
	g.Enabled = low | high
}

// Move repositions the option at from to to, carrying its priority and
// enabled flag along. Returns false when nothing moved.
func (g *MultiGroup) Move(from, to int) bool {
	if from == to || from < 0 || from >= len(g.options) {
		return false
	}
	to = clampIndex(to, len(g.options))
	if from == to {
		return false
	}

	enabled := make([]bool, len(g.options))
	for i := range g.options {
		enabled[i] = g.Enabled&(1<<uint(i)) != 0
	}

	opt := g.options[from]
	prio := g.priorities[from]
	flag := enabled[from]

	g.options = append(g.options[:from], g.options[from+1:]...)
	g.priorities = append(g.priorities[:from], g.priorities[from+1:]...)
	enabled = append(enabled[:from], enabled[from+1:]...)

	g.options = append(g.options[:to], append([]*Option{opt}, g.options[to:]...)...)
	g.priorities = append(g.priorities[:to], append([]int{prio}, g.priorities[to:]...)...)
	enabled = append(enabled[:to], append([]bool{flag}, enabled[to:]...)...)

	g.Enabled = 0
	for i, on := range enabled {
		if on {
			g.Enabled |= 1 << uint(i)
		}
	}
	return true
}

// Convert rebuilds a group as the other variant, preserving options and
// order. Single to multi assigns every option priority zero; multi to single
// drops per-option priorities and resets the selection to the first option.
// Converting to the group's own kind returns it unchanged.
func Convert(g Group, kind GroupKind) Group {
	if g.Kind() == kind {
		return g
	}
	switch src := g.(type) {
	case *SingleGroup:
		dst := NewMultiGroup(src.name)
		dst.description = src.description
		dst.priority = src.priority
		dst.options = src.Options()
		dst.priorities = make([]int, len(dst.options))
		return dst
	case *MultiGroup:
		dst := NewSingleGroup(src.name)
		dst.description = src.description
		dst.priority = src.priority
		dst.options = src.Options()
		dst.Selected = 0
		return dst
	default:
		return g
	}
}

// moveOption performs a stable reposition in place and tracks a selection
// index through the move
func moveOption(options []*Option, from, to, selected int) (bool, int) {
	if from == to || from < 0 || from >= len(options) {
		return false, selected
	}
	to = clampIndex(to, len(options))
	if from == to {
		return false, selected
	}

	opt := options[from]
	if from < to {
		copy(options[from:to], options[from+1:to+1])
	} else {
		copy(options[to+1:from+1], options[to:from])
	}
	options[to] = opt

	switch {
	case selected == from:
		selected = to
	case from < selected && to >= selected:
		selected--
	case from > selected && to <= selected:
		selected++
	}
	return true, selected
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i >= length {
		return length - 1
	}
	return i
}
