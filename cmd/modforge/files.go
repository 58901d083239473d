package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/engine"
	"github.com/modforge/modforge/pkg/fsops"
	"github.com/modforge/modforge/pkg/persist"
	"github.com/modforge/modforge/pkg/registry"
	"github.com/modforge/modforge/pkg/ui"
)

var filesCmd = &cobra.Command{
	Use:   "files <mod> <group-index> <option-index>",
	Short: "Show a mod's files and their usage by the given option",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMod(args[0])
		if err != nil {
			return err
		}
		groupIdx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("group index must be a number: %s", args[1])
		}
		optionIdx, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("option index must be a number: %s", args[2])
		}

		fsys := discovery.OSFS{}
		store := persist.NewDirStore(fsys)
		session := registry.NewSession(
			engine.New(store),
			discovery.NewWalker(fsys, persist.IsDefinitionFile),
			fsops.FSDeleter{FS: fsys},
		)
		if err := session.Open(m, groupIdx, optionIdx); err != nil {
			return err
		}

		type row struct {
			Path   string   `json:"path"`
			Class  string   `json:"class"`
			Usages []string `json:"usages,omitempty"`
		}
		entries := session.Entries()
		rows := make([]row, len(entries))
		for i, e := range entries {
			r := row{Path: e.RelPath, Class: session.Classify(i).String()}
			for _, u := range e.Usages {
				g := m.Groups[u.GroupIdx]
				r.Usages = append(r.Usages, fmt.Sprintf("%s/%s: %s", g.Name(), g.OptionAt(u.OptionIdx).Name, u.GamePath))
			}
			rows[i] = r
		}

		switch format {
		case ui.FormatJSON:
			return json.NewEncoder(os.Stdout).Encode(rows)
		case ui.FormatTerminal:
			data := pterm.TableData{{"File", "Class", "Usages"}}
			for _, r := range rows {
				data = append(data, []string{r.Path, r.Class, strings.Join(r.Usages, "; ")})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		default:
			for _, r := range rows {
				fmt.Printf("%s\t%s\t%s\n", r.Path, r.Class, strings.Join(r.Usages, "; "))
			}
			return nil
		}
	},
}
