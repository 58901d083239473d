package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/ui"
)

var groupsCmd = &cobra.Command{
	Use:   "groups <mod>",
	Short: "Show a mod's option groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMod(args[0])
		if err != nil {
			return err
		}

		switch format {
		case ui.FormatJSON:
			return json.NewEncoder(os.Stdout).Encode(groupsJSON(m))
		case ui.FormatTerminal:
			root := pterm.TreeNode{Text: pterm.Bold.Sprint(m.Name)}
			for _, g := range m.Groups {
				node := pterm.TreeNode{Text: ui.GroupLabel(g, true)}
				for i := 0; i < g.Len(); i++ {
					node.Children = append(node.Children, pterm.TreeNode{Text: ui.OptionLabel(g, i, true)})
				}
				root.Children = append(root.Children, node)
			}
			return pterm.DefaultTree.WithRoot(root).Render()
		default:
			fmt.Print(ui.ModSummary(m, false))
			return nil
		}
	},
}

type groupJSON struct {
	Name        string       `json:"name"`
	Kind        string       `json:"kind"`
	Description string       `json:"description,omitempty"`
	Priority    int          `json:"priority"`
	Selected    *int         `json:"selected,omitempty"`
	Enabled     *uint64      `json:"enabled,omitempty"`
	Options     []optionJSON `json:"options"`
}

type optionJSON struct {
	Name     string `json:"name"`
	Priority *int   `json:"priority,omitempty"`
	Files    int    `json:"files"`
	Swaps    int    `json:"swaps"`
	Edits    int    `json:"edits"`
}

func groupsJSON(m *mods.Mod) []groupJSON {
	out := make([]groupJSON, 0, len(m.Groups))
	for _, g := range m.Groups {
		gj := groupJSON{
			Name:        g.Name(),
			Kind:        string(g.Kind()),
			Description: g.Description(),
			Priority:    g.Priority(),
		}
		switch grp := g.(type) {
		case *mods.SingleGroup:
			selected := grp.Selected
			gj.Selected = &selected
		case *mods.MultiGroup:
			enabled := grp.Enabled
			gj.Enabled = &enabled
		}
		for i := 0; i < g.Len(); i++ {
			o := g.OptionAt(i)
			oj := optionJSON{
				Name:  o.Name,
				Files: o.Files.Len(),
				Swaps: o.Swaps.Len(),
				Edits: o.Meta.Len(),
			}
			if multi, ok := g.(*mods.MultiGroup); ok {
				priority := multi.OptionPriority(i)
				oj.Priority = &priority
			}
			gj.Options = append(gj.Options, oj)
		}
		out = append(out, gj)
	}
	return out
}
