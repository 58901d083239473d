// Package discovery enumerates the files physically present under a mod's
// storage root. It produces the raw (path, relative path) sequence the file
// registry is built from; what those files mean is the registry's business.
package discovery

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/modforge/modforge/pkg/errors"
	"github.com/modforge/modforge/pkg/logging"
)

// File is one discovered file under a storage root
type File struct {
	// Path is the concrete path on disk
	Path string

	// RelPath is the path relative to the storage root, with forward slashes
	RelPath string
}

// Lister produces the files under a storage root
type Lister interface {
	List(root string) ([]File, error)
}

// Walker lists files by walking a filesystem. Ignore is called with each
// root-level entry name; matching entries are skipped, which keeps a mod's
// own definition files out of the registry.
type Walker struct {
	FS     FS
	Ignore func(name string) bool
}

// NewWalker creates a walker over the given filesystem
func NewWalker(fsys FS, ignore func(name string) bool) *Walker {
	return &Walker{FS: fsys, Ignore: ignore}
}

// List walks root recursively and returns all files sorted by relative path
func (w *Walker) List(root string) ([]File, error) {
	logger := logging.GetLogger("discovery")

	info, err := w.FS.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "storage root does not exist").
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "storage root is not a directory").
			WithDetail("path", root)
	}

	var files []File
	if err := w.walk(root, "", true, &files); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})

	logger.Debug().Str("root", root).Int("count", len(files)).Msg("Listed mod files")
	return files, nil
}

func (w *Walker) walk(dir, rel string, top bool, files *[]File) error {
	entries, err := w.FS.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read directory").
			WithDetail("path", dir)
	}

	for _, entry := range entries {
		name := entry.Name()
		if top && w.Ignore != nil && w.Ignore(name) {
			continue
		}

		childPath := filepath.Join(dir, name)
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}

		if entry.IsDir() {
			if err := w.walk(childPath, childRel, false, files); err != nil {
				return err
			}
			continue
		}
		*files = append(*files, File{Path: childPath, RelPath: childRel})
	}
	return nil
}

// TrimSegments drops the first n path segments of a relative path, for
// deriving a virtual game path from a file's location in the storage root.
// Dropping everything yields the last segment alone.
func TrimSegments(relPath string, n int) string {
	if n <= 0 {
		return relPath
	}
	segments := strings.Split(relPath, "/")
	if n >= len(segments) {
		return segments[len(segments)-1]
	}
	return strings.Join(segments[n:], "/")
}
