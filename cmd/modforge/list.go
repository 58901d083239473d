package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed mods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := discovery.OSFS{}
		entries, err := fsys.ReadDir(cfg.Storage.ModsRoot)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("No mods installed.")
				return nil
			}
			return err
		}

		type row struct {
			Name       string `json:"name"`
			Groups     int    `json:"groups"`
			HasOptions bool   `json:"hasOptions"`
		}
		var rows []row
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			m, err := loadMod(entry.Name())
			if err != nil {
				continue
			}
			rows = append(rows, row{Name: m.Name, Groups: len(m.Groups), HasOptions: m.HasOptions})
		}

		switch format {
		case ui.FormatJSON:
			return json.NewEncoder(os.Stdout).Encode(rows)
		case ui.FormatTerminal:
			data := pterm.TableData{{"Mod", "Groups", "Options"}}
			for _, r := range rows {
				options := ""
				if r.HasOptions {
					options = "yes"
				}
				data = append(data, []string{r.Name, fmt.Sprint(r.Groups), options})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		default:
			for _, r := range rows {
				fmt.Printf("%s\t%d groups\n", r.Name, r.Groups)
			}
			return nil
		}
	},
}
