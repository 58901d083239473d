package discovery

import (
	"io/fs"
	"os"
)

// FS is the filesystem surface discovery and persistence operate through.
// Production code uses OSFS; tests use an in-memory implementation.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
}

// OSFS implements FS against the real filesystem
type OSFS struct{}

func (OSFS) Stat(name string) (fs.FileInfo, error)    { return os.Stat(name) }
func (OSFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OSFS) ReadFile(name string) ([]byte, error)     { return os.ReadFile(name) }
func (OSFS) Remove(name string) error                 { return os.Remove(name) }
func (OSFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (OSFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
