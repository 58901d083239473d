package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modforge/modforge/pkg/engine"
	"github.com/modforge/modforge/pkg/meta"
	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/testutil"
)

func buildTestMod(t *testing.T) *mods.Mod {
	t.Helper()
	m := mods.NewMod("Aurora Armor", "/mods/aurora")

	colors := mods.NewMultiGroup("Colors")
	colors.SetDescription("pick any combination")
	colors.SetPriority(1)
	red := mods.NewOption("Red")
	red.Files.Set("tex/body.tex", "/mods/aurora/red/body.tex")
	red.Meta.Put(meta.Edit{Kind: meta.KindAttribute, Target: "glow", Value: "on"})
	require.NoError(t, colors.Insert(red, 2))
	blue := mods.NewOption("Blue")
	blue.Swaps.Set("tex/trim.tex", "tex/trim_blue.tex")
	require.NoError(t, colors.Insert(blue, 0))
	colors.Enabled = 0b01

	styles := mods.NewSingleGroup("Styles")
	require.NoError(t, styles.Insert(mods.NewOption("Classic")))
	require.NoError(t, styles.Insert(mods.NewOption("Sleek")))
	styles.Selected = 1

	m.Groups = []mods.Group{colors, styles}
	m.ComputeHasOptions()
	return m
}

func TestGroupFileName(t *testing.T) {
	assert.Equal(t, "group_000_colors.toml", GroupFileName(0, "Colors"))
	assert.Equal(t, "group_012_two_words.toml", GroupFileName(12, "Two Words"))
	assert.Equal(t, "group_001_spikes.toml", GroupFileName(1, `Spi|ke:s?`))
}

func TestIsDefinitionFile(t *testing.T) {
	assert.True(t, IsDefinitionFile("group_000_colors.toml"))
	assert.True(t, IsDefinitionFile("mod.yaml"))
	assert.False(t, IsDefinitionFile("readme.txt"))
	assert.False(t, IsDefinitionFile("tex/body.tex"))
}

func TestDirStore_SaveAndLoadRoundTrip(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))
	store := NewDirStore(fsys)
	m := buildTestMod(t)

	require.NoError(t, store.SaveGroup(m, 0))
	require.NoError(t, store.SaveGroup(m, 1))
	require.NoError(t, SaveMeta(fsys, m.BasePath, ModMeta{Name: m.Name}))

	loaded, err := LoadMod(fsys, "/mods/aurora")
	require.NoError(t, err)

	assert.Equal(t, "Aurora Armor", loaded.Name)
	require.Len(t, loaded.Groups, 2)
	assert.True(t, loaded.HasOptions)

	colors, ok := loaded.Groups[0].(*mods.MultiGroup)
	require.True(t, ok)
	assert.Equal(t, "Colors", colors.Name())
	assert.Equal(t, "pick any combination", colors.Description())
	assert.Equal(t, 1, colors.Priority())
	assert.Equal(t, uint64(0b01), colors.Enabled)
	require.Equal(t, 2, colors.Len())
	assert.Equal(t, 2, colors.OptionPriority(0))

	red := colors.OptionAt(0)
	source, _ := red.Files.Get("tex/body.tex")
	assert.Equal(t, "/mods/aurora/red/body.tex", source)
	edit, ok := red.Meta.Get(meta.Identity{Kind: meta.KindAttribute, Target: "glow"})
	require.True(t, ok)
	assert.Equal(t, "on", edit.Value)

	styles, ok := loaded.Groups[1].(*mods.SingleGroup)
	require.True(t, ok)
	assert.Equal(t, 1, styles.Selected)
}

func TestDirStore_SaveRemovesStaleFile(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))
	store := NewDirStore(fsys)
	m := buildTestMod(t)

	require.NoError(t, store.SaveGroup(m, 0))
	require.True(t, fsys.Exists("/mods/aurora/group_000_colors.toml"))

	// The group moves to index 1; the old file must go.
	m.Groups[0], m.Groups[1] = m.Groups[1], m.Groups[0]
	require.NoError(t, store.SaveGroup(m, 1))

	assert.False(t, fsys.Exists("/mods/aurora/group_000_colors.toml"))
	assert.True(t, fsys.Exists("/mods/aurora/group_001_colors.toml"))
}

func TestDirStore_DeleteGroupFile(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))
	store := NewDirStore(fsys)
	m := buildTestMod(t)

	require.NoError(t, store.SaveGroup(m, 0))
	require.NoError(t, store.SaveGroup(m, 1))

	require.NoError(t, store.DeleteGroupFile(m, m.Groups[0]))
	assert.False(t, fsys.Exists("/mods/aurora/group_000_colors.toml"))
	assert.True(t, fsys.Exists("/mods/aurora/group_001_styles.toml"))

	// Deleting a group that has no file is not an error.
	assert.NoError(t, store.DeleteGroupFile(m, mods.NewSingleGroup("Ghost")))
}

func TestDirStore_RenameReloadRoundTrip(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))
	store := NewDirStore(fsys)
	m := buildTestMod(t)
	require.NoError(t, store.SaveGroup(m, 0))
	require.NoError(t, store.SaveGroup(m, 1))

	eng := engine.New(store)
	require.NoError(t, eng.RenameGroup(m, 0, "Shades"))

	// The old file must not survive the rename.
	assert.False(t, fsys.Exists("/mods/aurora/group_000_colors.toml"))
	assert.True(t, fsys.Exists("/mods/aurora/group_000_shades.toml"))

	loaded, err := LoadMod(fsys, "/mods/aurora")
	require.NoError(t, err)
	require.Len(t, loaded.Groups, 2)
	assert.Equal(t, "Shades", loaded.Groups[0].Name())
	assert.Equal(t, "Styles", loaded.Groups[1].Name())
}

func TestDirStore_SlugCollisionKeepsDistinctGroups(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))
	store := NewDirStore(fsys)

	// Both names are valid and distinct, but share the slug a_b.
	m := mods.NewMod("Aurora", "/mods/aurora")
	spaced := mods.NewSingleGroup("A B")
	underscored := mods.NewSingleGroup("A_B")
	m.Groups = []mods.Group{spaced, underscored}

	require.NoError(t, store.SaveGroup(m, 0))
	require.NoError(t, store.SaveGroup(m, 1))
	assert.True(t, fsys.Exists("/mods/aurora/group_000_a_b.toml"))
	assert.True(t, fsys.Exists("/mods/aurora/group_001_a_b.toml"))

	// Re-saving one group must not treat the other group's file as stale.
	require.NoError(t, store.SaveGroup(m, 0))
	assert.True(t, fsys.Exists("/mods/aurora/group_001_a_b.toml"))

	// Deleting one group's file must leave the other group's file alone.
	require.NoError(t, store.DeleteGroupFile(m, spaced))
	assert.False(t, fsys.Exists("/mods/aurora/group_000_a_b.toml"))
	assert.True(t, fsys.Exists("/mods/aurora/group_001_a_b.toml"))

	loaded, err := LoadMod(fsys, "/mods/aurora")
	require.NoError(t, err)
	require.Len(t, loaded.Groups, 1)
	assert.Equal(t, "A_B", loaded.Groups[0].Name())
}

func TestLoadMeta_Fallbacks(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))

	assert.Equal(t, "aurora", LoadMeta(fsys, "/mods/aurora").Name)

	require.NoError(t, fsys.WriteFile("/mods/aurora/mod.yaml", []byte("name: Aurora Armor\nauthor: someone\n"), 0644))
	got := LoadMeta(fsys, "/mods/aurora")
	assert.Equal(t, "Aurora Armor", got.Name)
	assert.Equal(t, "someone", got.Author)

	require.NoError(t, fsys.WriteFile("/mods/aurora/mod.yaml", []byte(":::not yaml"), 0644))
	assert.Equal(t, "aurora", LoadMeta(fsys, "/mods/aurora").Name)
}

func TestLoadMod_SkipsBrokenGroupFiles(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))
	store := NewDirStore(fsys)
	m := buildTestMod(t)
	require.NoError(t, store.SaveGroup(m, 0))
	require.NoError(t, fsys.WriteFile("/mods/aurora/group_001_broken.toml", []byte("not [valid toml"), 0644))

	loaded, err := LoadMod(fsys, "/mods/aurora")
	require.NoError(t, err)
	assert.Len(t, loaded.Groups, 1)
}

func TestMetaManifest_RoundTrip(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/mods/aurora", 0755))
	m := buildTestMod(t)

	require.NoError(t, WriteMetaManifest(fsys, m))
	require.True(t, fsys.Exists("/mods/aurora/meta_manifest.xml"))

	edits, err := ReadMetaManifest(fsys, "/mods/aurora")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "Colors", edits[0].Group)
	assert.Equal(t, "Red", edits[0].Option)
	assert.Equal(t, meta.Edit{Kind: meta.KindAttribute, Target: "glow", Value: "on"}, edits[0].Edit)
}

func TestReadMetaManifest_Missing(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	_, err := ReadMetaManifest(fsys, "/mods/aurora")
	assert.Error(t, err)
}
