// Package fsops performs the destructive filesystem work of the editing
// session through a synthfs pipeline. File deletion is irreversible and
// intentionally does not touch option mappings; a mapping left dangling is
// reported by the registry, not healed here.
package fsops

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/modforge/modforge/pkg/logging"
)

// Deleter removes concrete files from a mod's storage
type Deleter interface {
	// Delete removes the given files and returns how many removals failed
	Delete(paths []string) int
}

// SynthDeleter deletes files through synthfs operations. Each file runs as
// its own pipeline so one failure never blocks the rest of the batch.
type SynthDeleter struct {
	logger     zerolog.Logger
	filesystem synthfs.FileSystem

	// Root confines deletion; paths outside it are counted as failures
	Root string
}

// NewSynthDeleter creates a deleter confined to the given storage root
func NewSynthDeleter(root string) *SynthDeleter {
	return &SynthDeleter{
		logger:     logging.GetLogger("fsops.delete"),
		filesystem: filesystem.NewOSFileSystem("/"),
		Root:       root,
	}
}

// Delete removes each file, returning the number of failures
func (d *SynthDeleter) Delete(paths []string) int {
	failed := 0
	ctx := context.Background()

	for _, target := range paths {
		if err := d.deleteOne(ctx, target); err != nil {
			d.logger.Error().
				Err(err).
				Str("target", target).
				Msg("failed to delete file")
			failed++
		}
	}

	if failed > 0 {
		d.logger.Warn().Int("failed", failed).Int("total", len(paths)).Msg("file deletion finished with failures")
	}
	return failed
}

func (d *SynthDeleter) deleteOne(ctx context.Context, target string) error {
	if err := d.validateSafePath(target); err != nil {
		return err
	}

	// synthfs operates on paths relative to its filesystem root
	relPath, err := filepath.Rel("/", target)
	if err != nil {
		return fmt.Errorf("failed to convert path %s: %w", target, err)
	}

	opID := core.OperationID(fmt.Sprintf("delete-%s", target))
	deleteOp := operations.NewDeleteOperation(opID, relPath)

	pipeline := synthfs.NewMemPipeline()
	if err := pipeline.Add(synthfs.NewOperationsPackageAdapter(deleteOp)); err != nil {
		return fmt.Errorf("failed to build delete pipeline: %w", err)
	}

	result := synthfs.NewExecutor().Run(ctx, pipeline, d.filesystem)
	return result.GetError()
}

// validateSafePath rejects deletions outside the configured storage root
func (d *SynthDeleter) validateSafePath(target string) error {
	if d.Root == "" {
		return fmt.Errorf("deleter has no storage root configured")
	}
	cleanTarget := filepath.Clean(target)
	cleanRoot := filepath.Clean(d.Root)
	if cleanTarget != cleanRoot && !strings.HasPrefix(cleanTarget, cleanRoot+string(filepath.Separator)) {
		return fmt.Errorf("refusing to delete %s outside storage root %s", target, d.Root)
	}
	return nil
}

// FSDeleter deletes files through a plain filesystem interface, used by
// tests and by callers that already hold an FS abstraction
type FSDeleter struct {
	FS interface{ Remove(name string) error }
}

// Delete removes each file, returning the number of failures
func (d FSDeleter) Delete(paths []string) int {
	logger := logging.GetLogger("fsops.delete")
	failed := 0
	for _, target := range paths {
		if err := d.FS.Remove(target); err != nil {
			logger.Error().Err(err).Str("target", target).Msg("failed to delete file")
			failed++
		}
	}
	return failed
}
