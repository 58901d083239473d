package engine

import "github.com/modforge/modforge/pkg/mods"

// ChangeKind identifies which kind of structural change an event reports
type ChangeKind int

const (
	GroupAdded ChangeKind = iota
	GroupDeleted
	GroupRenamed
	GroupMoved
	GroupTypeChanged
	PriorityChanged
	DisplayChanged
	OptionAdded
	OptionDeleted
	OptionMoved
	OptionFilesChanged
	OptionSwapsChanged
	OptionMetaChanged
	OptionUpdated
)

// String returns the change kind name for logging
func (k ChangeKind) String() string {
	switch k {
	case GroupAdded:
		return "GroupAdded"
	case GroupDeleted:
		return "GroupDeleted"
	case GroupRenamed:
		return "GroupRenamed"
	case GroupMoved:
		return "GroupMoved"
	case GroupTypeChanged:
		return "GroupTypeChanged"
	case PriorityChanged:
		return "PriorityChanged"
	case DisplayChanged:
		return "DisplayChanged"
	case OptionAdded:
		return "OptionAdded"
	case OptionDeleted:
		return "OptionDeleted"
	case OptionMoved:
		return "OptionMoved"
	case OptionFilesChanged:
		return "OptionFilesChanged"
	case OptionSwapsChanged:
		return "OptionSwapsChanged"
	case OptionMetaChanged:
		return "OptionMetaChanged"
	case OptionUpdated:
		return "OptionUpdated"
	default:
		return "Unknown"
	}
}

// Event is emitted once for every state-changing mutation. OptionIdx and
// MoveTo are -1 when not applicable.
type Event struct {
	Kind      ChangeKind
	Mod       *mods.Mod
	GroupIdx  int
	OptionIdx int
	MoveTo    int
}

func groupEvent(kind ChangeKind, m *mods.Mod, groupIdx int) Event {
	return Event{Kind: kind, Mod: m, GroupIdx: groupIdx, OptionIdx: -1, MoveTo: -1}
}

func optionEvent(kind ChangeKind, m *mods.Mod, groupIdx, optionIdx int) Event {
	return Event{Kind: kind, Mod: m, GroupIdx: groupIdx, OptionIdx: optionIdx, MoveTo: -1}
}
