package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/testutil"
)

func TestCheckMod_Clean(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.WriteFile("/mods/aurora/red/body.tex", []byte("tex"), 0644))

	m := mods.NewMod("Aurora", "/mods/aurora")
	colors := mods.NewMultiGroup("Colors")
	red := mods.NewOption("Red")
	red.Files.Set("tex/body.tex", "/mods/aurora/red/body.tex")
	require.NoError(t, colors.Insert(red, 0))
	require.NoError(t, colors.Insert(mods.NewOption("Blue"), 0))
	m.Groups = []mods.Group{colors}
	m.ComputeHasOptions()

	assert.Empty(t, checkMod(m, fsys))
}

func TestCheckMod_Findings(t *testing.T) {
	fsys := testutil.NewMemoryFS()

	m := mods.NewMod("Broken", "/mods/broken")

	colors := mods.NewMultiGroup("Colors")
	require.NoError(t, colors.Insert(mods.NewOption("Red"), 0))
	colors.Enabled = 0b10 // only one option, bit 1 is dangling

	// Sanitizes to the same name as Colors.
	clash := mods.NewSingleGroup("colors?")
	require.NoError(t, clash.Insert(mods.NewOption("A")))
	require.NoError(t, clash.Insert(mods.NewOption("B")))
	clash.Selected = 5

	m.Groups = []mods.Group{colors, clash}
	m.HasOptions = false // stale, both groups qualify

	problems := checkMod(m, fsys)
	require.Len(t, problems, 4)
	assert.Contains(t, problems[0], "duplicate group name")
	assert.Contains(t, problems[1], "enabled mask")
	assert.Contains(t, problems[2], "selected option 5 out of range")
	assert.Contains(t, problems[3], "hasOptions flag")
}

func TestCheckMod_MissingFile(t *testing.T) {
	fsys := testutil.NewMemoryFS()

	m := mods.NewMod("Aurora", "/mods/aurora")
	styles := mods.NewSingleGroup("Styles")
	sleek := mods.NewOption("Sleek")
	sleek.Files.Set("tex/body.tex", "/mods/aurora/sleek/body.tex")
	require.NoError(t, styles.Insert(sleek))
	require.NoError(t, styles.Insert(mods.NewOption("Classic")))
	m.Groups = []mods.Group{styles}
	m.ComputeHasOptions()

	problems := checkMod(m, fsys)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "missing file")
}
