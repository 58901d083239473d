package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modforge/modforge/pkg/mods"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"auto", FormatAuto, false},
		{"", FormatAuto, false},
		{"term", FormatTerminal, false},
		{"TERMINAL", FormatTerminal, false},
		{"text", FormatText, false},
		{"plain", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "auto", FormatAuto.String())
	assert.Equal(t, "term", FormatTerminal.String())
	assert.Equal(t, "text", FormatText.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "unknown", Format(42).String())
}

func TestModSummary_Plain(t *testing.T) {
	m := mods.NewMod("Aurora Armor", "/mods/aurora")

	styles := mods.NewSingleGroup("Styles")
	require.NoError(t, styles.Insert(mods.NewOption("Classic")))
	sleek := mods.NewOption("Sleek")
	sleek.Files.Set("tex/body.tex", "/mods/aurora/sleek/body.tex")
	require.NoError(t, styles.Insert(sleek))
	styles.Selected = 1

	m.Groups = []mods.Group{styles}
	m.ComputeHasOptions()

	out := ModSummary(m, false)
	assert.Contains(t, out, "Aurora Armor")
	assert.Contains(t, out, "Styles [single] p0")
	assert.Contains(t, out, "  Classic")
	assert.Contains(t, out, "* Sleek (1 files)")
	assert.NotContains(t, out, "no options")
}

func TestModSummary_NoOptions(t *testing.T) {
	m := mods.NewMod("Plain Mod", "/mods/plain")
	out := ModSummary(m, false)
	assert.Contains(t, out, "no options")
}

func TestOptionLabel_MultiMarksEnabled(t *testing.T) {
	g := mods.NewMultiGroup("Colors")
	require.NoError(t, g.Insert(mods.NewOption("Red"), 0))
	require.NoError(t, g.Insert(mods.NewOption("Blue"), 0))
	g.Enabled = 0b10

	assert.Equal(t, "  Red", OptionLabel(g, 0, false))
	assert.Equal(t, "* Blue", OptionLabel(g, 1, false))
}
