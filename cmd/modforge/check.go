package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/engine"
	"github.com/modforge/modforge/pkg/mods"
)

var checkCmd = &cobra.Command{
	Use:   "check <mod>",
	Short: "Check a mod's option structure for inconsistencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMod(args[0])
		if err != nil {
			return err
		}

		problems := checkMod(m, discovery.OSFS{})
		if len(problems) == 0 {
			fmt.Println("OK")
			return nil
		}
		for _, p := range problems {
			fmt.Println(p)
		}
		return fmt.Errorf("%d problem(s) found", len(problems))
	},
}

// checkMod lints a loaded mod and returns one line per finding
func checkMod(m *mods.Mod, fsys discovery.FS) []string {
	var problems []string

	seen := make(map[string]string)
	for _, g := range m.Groups {
		key := strings.ToLower(engine.SanitizeName(g.Name()))
		if other, ok := seen[key]; ok {
			problems = append(problems, fmt.Sprintf("duplicate group name: %q collides with %q", g.Name(), other))
			continue
		}
		seen[key] = g.Name()
	}

	for _, g := range m.Groups {
		switch grp := g.(type) {
		case *mods.SingleGroup:
			if grp.Len() > 0 && (grp.Selected < 0 || grp.Selected >= grp.Len()) {
				problems = append(problems, fmt.Sprintf("group %q: selected option %d out of range", g.Name(), grp.Selected))
			}
		case *mods.MultiGroup:
			if grp.Len() < 64 && grp.Enabled>>uint(grp.Len()) != 0 {
				problems = append(problems, fmt.Sprintf("group %q: enabled mask has bits beyond its %d options", g.Name(), grp.Len()))
			}
		}

		for i := 0; i < g.Len(); i++ {
			o := g.OptionAt(i)
			o.Files.Each(func(gamePath, source string) {
				if _, err := fsys.Stat(source); err != nil {
					problems = append(problems, fmt.Sprintf("group %q option %q: %s points at missing file %s", g.Name(), o.Name, gamePath, source))
				}
			})
		}
	}

	scan := false
	for _, g := range m.Groups {
		if g.IsOption() {
			scan = true
			break
		}
	}
	if m.HasOptions != scan {
		problems = append(problems, fmt.Sprintf("hasOptions flag is %v but the groups say %v", m.HasOptions, scan))
	}

	return problems
}
