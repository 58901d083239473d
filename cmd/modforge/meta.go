package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/engine"
	"github.com/modforge/modforge/pkg/meta"
	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/persist"
)

var exportMetaCmd = &cobra.Command{
	Use:   "export-meta <mod>",
	Short: "Write a mod's metadata edits to its XML manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMod(args[0])
		if err != nil {
			return err
		}
		if err := persist.WriteMetaManifest(discovery.OSFS{}, m); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", persist.ManifestFileName)
		return nil
	},
}

var importMetaCmd = &cobra.Command{
	Use:   "import-meta <mod>",
	Short: "Apply metadata edits from a mod's XML manifest",
	Long: `Reads the mod's meta manifest and replaces the metadata edits of every
option the manifest names. Options not in the manifest are untouched;
manifest entries naming an unknown group or option are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMod(args[0])
		if err != nil {
			return err
		}
		fsys := discovery.OSFS{}
		edits, err := persist.ReadMetaManifest(fsys, m.BasePath)
		if err != nil {
			return err
		}

		eng := engine.New(persist.NewDirStore(fsys))
		applied, skipped := importManifest(eng, m, edits)
		for _, line := range skipped {
			fmt.Println(line)
		}
		fmt.Printf("Applied metadata edits to %d option(s)\n", applied)
		return nil
	},
}

// importManifest replaces the metadata edit set of every option the manifest
// names, one engine call per option. Returns the number of options updated
// and one line per entry that matched nothing.
func importManifest(eng *engine.Engine, m *mods.Mod, edits []persist.ManifestEdit) (int, []string) {
	type target struct{ groupIdx, optionIdx int }
	byTarget := make(map[target][]meta.Edit)
	var order []target
	var skipped []string

	for _, me := range edits {
		groupIdx, optionIdx, ok := findOption(m, me.Group, me.Option)
		if !ok {
			skipped = append(skipped, fmt.Sprintf("skipping edit for unknown option %q in group %q", me.Option, me.Group))
			continue
		}
		tg := target{groupIdx, optionIdx}
		if _, seen := byTarget[tg]; !seen {
			order = append(order, tg)
		}
		byTarget[tg] = append(byTarget[tg], me.Edit)
	}

	applied := 0
	for _, tg := range order {
		if err := eng.SetMetaEdits(m, tg.groupIdx, tg.optionIdx, meta.FromEdits(byTarget[tg])); err == nil {
			applied++
		}
	}
	return applied, skipped
}

// findOption locates an option by group and option display name
func findOption(m *mods.Mod, groupName, optionName string) (int, int, bool) {
	for gi, g := range m.Groups {
		if g.Name() != groupName {
			continue
		}
		for oi := 0; oi < g.Len(); oi++ {
			if g.OptionAt(oi).Name == optionName {
				return gi, oi, true
			}
		}
	}
	return 0, 0, false
}
