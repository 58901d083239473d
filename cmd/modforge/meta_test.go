package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modforge/modforge/pkg/engine"
	"github.com/modforge/modforge/pkg/meta"
	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/persist"
	"github.com/modforge/modforge/pkg/testutil"
)

func manifestFixture(t *testing.T) (*testutil.MemoryFS, *mods.Mod) {
	t.Helper()
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))

	m := mods.NewMod("Aurora", "/mods/aurora")
	colors := mods.NewMultiGroup("Colors")
	require.NoError(t, colors.Insert(mods.NewOption("Red"), 0))
	require.NoError(t, colors.Insert(mods.NewOption("Blue"), 0))
	m.Groups = []mods.Group{colors}
	m.ComputeHasOptions()
	return fsys, m
}

func TestImportManifest_RoundTrip(t *testing.T) {
	fsys, src := manifestFixture(t)
	glow := meta.Edit{Kind: meta.KindAttribute, Target: "glow", Value: "on"}
	src.Groups[0].OptionAt(0).Meta.Put(glow)
	require.NoError(t, persist.WriteMetaManifest(fsys, src))

	// A freshly loaded mod without the edit picks it up from the manifest.
	_, dst := manifestFixture(t)
	edits, err := persist.ReadMetaManifest(fsys, dst.BasePath)
	require.NoError(t, err)

	eng := engine.New(persist.NewDirStore(fsys))
	applied, skipped := importManifest(eng, dst, edits)

	assert.Equal(t, 1, applied)
	assert.Empty(t, skipped)
	got, ok := dst.Groups[0].OptionAt(0).Meta.Get(meta.Identity{Kind: meta.KindAttribute, Target: "glow"})
	require.True(t, ok)
	assert.Equal(t, "on", got.Value)
	// The engine's built-in subscriber persisted the touched group.
	assert.True(t, fsys.Exists("/mods/aurora/group_000_colors.toml"))
}

func TestImportManifest_SkipsUnknownTargets(t *testing.T) {
	fsys, m := manifestFixture(t)
	eng := engine.New(persist.NewDirStore(fsys))

	edits := []persist.ManifestEdit{
		{Group: "Colors", Option: "Red", Edit: meta.Edit{Kind: meta.KindAttribute, Target: "glow", Value: "on"}},
		{Group: "Colors", Option: "Green", Edit: meta.Edit{Kind: meta.KindAttribute, Target: "glow", Value: "on"}},
		{Group: "Ghost", Option: "Red", Edit: meta.Edit{Kind: meta.KindVariant, Target: "body", Value: "slim"}},
	}
	applied, skipped := importManifest(eng, m, edits)

	assert.Equal(t, 1, applied)
	require.Len(t, skipped, 2)
	assert.Contains(t, skipped[0], `"Green"`)
	assert.Contains(t, skipped[1], `"Ghost"`)
	assert.Equal(t, 1, m.Groups[0].OptionAt(0).Meta.Len())
	assert.Equal(t, 0, m.Groups[0].OptionAt(1).Meta.Len())
}

func TestImportManifest_MergesEditsPerOption(t *testing.T) {
	fsys, m := manifestFixture(t)
	eng := engine.New(persist.NewDirStore(fsys))

	// Two manifest entries for the same option land as one replacement set.
	edits := []persist.ManifestEdit{
		{Group: "Colors", Option: "Red", Edit: meta.Edit{Kind: meta.KindAttribute, Target: "glow", Value: "on"}},
		{Group: "Colors", Option: "Red", Edit: meta.Edit{Kind: meta.KindScaling, Target: "height", Value: "1.1"}},
	}
	applied, _ := importManifest(eng, m, edits)

	assert.Equal(t, 1, applied)
	assert.Equal(t, 2, m.Groups[0].OptionAt(0).Meta.Len())
}
