package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modforge/modforge/pkg/mods"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	kindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	markStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// GroupLabel renders a group's one-line header
func GroupLabel(g mods.Group, styled bool) string {
	kind := fmt.Sprintf("[%s]", g.Kind())
	prio := fmt.Sprintf("p%d", g.Priority())
	if !styled {
		return fmt.Sprintf("%s %s %s", g.Name(), kind, prio)
	}
	return fmt.Sprintf("%s %s %s", titleStyle.Render(g.Name()), kindStyle.Render(kind), dimStyle.Render(prio))
}

// OptionLabel renders one option line, marking the active selection
func OptionLabel(g mods.Group, idx int, styled bool) string {
	o := g.OptionAt(idx)
	mark := " "
	switch grp := g.(type) {
	case *mods.SingleGroup:
		if grp.Selected == idx {
			mark = "*"
		}
	case *mods.MultiGroup:
		if grp.Enabled&(1<<uint(idx)) != 0 {
			mark = "*"
		}
	}

	var extras []string
	if n := o.Files.Len(); n > 0 {
		extras = append(extras, fmt.Sprintf("%d files", n))
	}
	if n := o.Swaps.Len(); n > 0 {
		extras = append(extras, fmt.Sprintf("%d swaps", n))
	}
	if n := o.Meta.Len(); n > 0 {
		extras = append(extras, fmt.Sprintf("%d edits", n))
	}
	suffix := ""
	if len(extras) > 0 {
		suffix = " (" + strings.Join(extras, ", ") + ")"
	}

	if !styled {
		return fmt.Sprintf("%s %s%s", mark, o.Name, suffix)
	}
	return fmt.Sprintf("%s %s%s", markStyle.Render(mark), o.Name, dimStyle.Render(suffix))
}

// ModSummary renders a mod's full option tree as indented text
func ModSummary(m *mods.Mod, styled bool) string {
	var b strings.Builder

	name := m.Name
	if styled {
		name = titleStyle.Render(name)
	}
	b.WriteString(name)
	if !m.HasOptions {
		note := " (no options)"
		if styled {
			note = dimStyle.Render(note)
		}
		b.WriteString(note)
	}
	b.WriteString("\n")

	for _, g := range m.Groups {
		b.WriteString("  " + GroupLabel(g, styled) + "\n")
		for i := 0; i < g.Len(); i++ {
			b.WriteString("    " + OptionLabel(g, i, styled) + "\n")
		}
	}
	return b.String()
}
