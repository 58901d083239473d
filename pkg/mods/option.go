// Package mods holds the in-memory model of a mod package: its option
// groups, their options, and the file redirections and metadata edits each
// option carries.
package mods

import (
	"github.com/modforge/modforge/pkg/meta"
	"github.com/modforge/modforge/pkg/redirect"
)

// Option is one selectable content variant within a group
type Option struct {
	Name string

	// Files maps virtual game paths to the concrete files replacing them
	Files *redirect.Map

	// Swaps maps one virtual game path to another existing game asset
	Swaps *redirect.Map

	// Meta holds the option's structured metadata edits
	Meta *meta.Set
}

// NewOption creates an empty option with the given display name
func NewOption(name string) *Option {
	return &Option{
		Name:  name,
		Files: redirect.New(),
		Swaps: redirect.New(),
		Meta:  meta.NewSet(),
	}
}
