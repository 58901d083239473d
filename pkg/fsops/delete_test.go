package fsops

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modforge/modforge/pkg/testutil"
)

func TestFSDeleter_Delete(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.WriteFile("/mods/m/a.tex", []byte("x"), 0644))
	require.NoError(t, fsys.WriteFile("/mods/m/b.tex", []byte("x"), 0644))

	d := FSDeleter{FS: fsys}

	failed := d.Delete([]string{"/mods/m/a.tex", "/mods/m/missing.tex", "/mods/m/b.tex"})
	assert.Equal(t, 1, failed)
	assert.False(t, fsys.Exists("/mods/m/a.tex"))
	assert.False(t, fsys.Exists("/mods/m/b.tex"))
}

func TestFSDeleter_CountsEveryFailure(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.WriteFile("/mods/m/a.tex", []byte("x"), 0644))
	fsys.RemoveErr = errors.New("permission denied")
	fsys.FailPaths = map[string]bool{"/mods/m/a.tex": true}

	d := FSDeleter{FS: fsys}
	assert.Equal(t, 1, d.Delete([]string{"/mods/m/a.tex"}))
	assert.True(t, fsys.Exists("/mods/m/a.tex"), "failed delete leaves the file")
}

func TestSynthDeleter_RefusesPathsOutsideRoot(t *testing.T) {
	d := NewSynthDeleter("/mods/aurora")

	assert.NoError(t, d.validateSafePath("/mods/aurora/tex/body.tex"))
	assert.Error(t, d.validateSafePath("/mods/other/file.tex"))
	assert.Error(t, d.validateSafePath("/etc/passwd"))
	assert.Error(t, d.validateSafePath("/mods/aurora-armor/file.tex"), "sibling with shared prefix is outside")
}

func TestSynthDeleter_NoRootConfigured(t *testing.T) {
	d := &SynthDeleter{}
	assert.Error(t, d.validateSafePath("/anything"))
}
