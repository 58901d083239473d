package persist

import (
	"github.com/modforge/modforge/pkg/meta"
	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/redirect"
)

// groupFile is the TOML shape of one group definition
type groupFile struct {
	Name        string       `toml:"name"`
	Kind        string       `toml:"kind"`
	Description string       `toml:"description,omitempty"`
	Priority    int          `toml:"priority"`
	Selected    int          `toml:"selected,omitempty"`
	Enabled     uint64       `toml:"enabled,omitempty"`
	Options     []optionFile `toml:"options,omitempty"`
}

type optionFile struct {
	Name     string            `toml:"name"`
	Priority int               `toml:"priority,omitempty"`
	Files    map[string]string `toml:"files,omitempty"`
	Swaps    map[string]string `toml:"swaps,omitempty"`
	Edits    []editFile        `toml:"edits,omitempty"`
}

type editFile struct {
	Kind   string `toml:"kind"`
	Target string `toml:"target"`
	Value  string `toml:"value"`
}

func encodeGroup(g mods.Group) groupFile {
	out := groupFile{
		Name:        g.Name(),
		Kind:        string(g.Kind()),
		Description: g.Description(),
		Priority:    g.Priority(),
	}

	switch grp := g.(type) {
	case *mods.SingleGroup:
		out.Selected = grp.Selected
	case *mods.MultiGroup:
		out.Enabled = grp.Enabled
	}

	for i := 0; i < g.Len(); i++ {
		o := g.OptionAt(i)
		of := optionFile{Name: o.Name}
		if multi, ok := g.(*mods.MultiGroup); ok {
			of.Priority = multi.OptionPriority(i)
		}
		if o.Files.Len() > 0 {
			of.Files = make(map[string]string, o.Files.Len())
			o.Files.Each(func(gamePath, source string) { of.Files[gamePath] = source })
		}
		if o.Swaps.Len() > 0 {
			of.Swaps = make(map[string]string, o.Swaps.Len())
			o.Swaps.Each(func(gamePath, target string) { of.Swaps[gamePath] = target })
		}
		for _, e := range o.Meta.List() {
			of.Edits = append(of.Edits, editFile{Kind: string(e.Kind), Target: e.Target, Value: e.Value})
		}
		out.Options = append(out.Options, of)
	}
	return out
}

func decodeGroup(gf groupFile) mods.Group {
	var g mods.Group
	switch mods.GroupKind(gf.Kind) {
	case mods.GroupMulti:
		multi := mods.NewMultiGroup(gf.Name)
		multi.Enabled = gf.Enabled
		for _, of := range gf.Options {
			_ = multi.Insert(decodeOption(of), of.Priority)
		}
		g = multi
	default:
		single := mods.NewSingleGroup(gf.Name)
		for _, of := range gf.Options {
			_ = single.Insert(decodeOption(of))
		}
		if gf.Selected >= 0 && gf.Selected < single.Len() {
			single.Selected = gf.Selected
		}
		g = single
	}

	g.SetDescription(gf.Description)
	g.SetPriority(gf.Priority)
	return g
}

func decodeOption(of optionFile) *mods.Option {
	o := mods.NewOption(of.Name)
	o.Files.ReplaceAll(redirect.FromPairs(of.Files))
	o.Swaps.ReplaceAll(redirect.FromPairs(of.Swaps))

	edits := make([]meta.Edit, 0, len(of.Edits))
	for _, e := range of.Edits {
		edits = append(edits, meta.Edit{Kind: meta.EditKind(e.Kind), Target: e.Target, Value: e.Value})
	}
	o.Meta.ReplaceAll(meta.FromEdits(edits))
	return o
}
