// Package testutil provides test doubles shared across package tests.
package testutil

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"
)

// MemoryFS implements discovery.FS with in-memory storage. Parent
// directories are created implicitly on write, matching what the os-backed
// implementation sees after MkdirAll.
type MemoryFS struct {
	files map[string][]byte
	dirs  map[string]bool

	// RemoveErr, when set, is returned by Remove for paths in FailPaths
	RemoveErr error
	FailPaths map[string]bool
}

// NewMemoryFS creates an empty in-memory filesystem
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true},
	}
}

func clean(name string) string {
	return path.Clean(strings.ReplaceAll(name, "\\", "/"))
}

// WriteFile stores content, creating parent directories implicitly
func (m *MemoryFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	name = clean(name)
	m.files[name] = append([]byte(nil), data...)
	for dir := path.Dir(name); dir != "/" && dir != "."; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
	return nil
}

// ReadFile returns stored content
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	data, ok := m.files[clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// MkdirAll records a directory and its parents
func (m *MemoryFS) MkdirAll(name string, _ fs.FileMode) error {
	for dir := clean(name); dir != "/" && dir != "."; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
	return nil
}

// Remove deletes a file
func (m *MemoryFS) Remove(name string) error {
	name = clean(name)
	if m.FailPaths[name] && m.RemoveErr != nil {
		return m.RemoveErr
	}
	if _, ok := m.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

// Exists reports whether a file is present
func (m *MemoryFS) Exists(name string) bool {
	_, ok := m.files[clean(name)]
	return ok
}

// Paths returns all stored file paths, sorted
func (m *MemoryFS) Paths() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Stat reports on a file or directory
func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	name = clean(name)
	if data, ok := m.files[name]; ok {
		return memInfo{name: path.Base(name), size: int64(len(data))}, nil
	}
	if m.dirs[name] {
		return memInfo{name: path.Base(name), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadDir lists the immediate children of a directory
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	name = clean(name)
	if !m.dirs[name] {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	seen := make(map[string]bool)
	var entries []fs.DirEntry

	addChild := func(child string, dir bool) {
		rest := strings.TrimPrefix(child, name+"/")
		first := rest
		if i := strings.Index(rest, "/"); i >= 0 {
			first = rest[:i]
			dir = true
		}
		if first == "" || seen[first] {
			return
		}
		seen[first] = true
		entries = append(entries, memEntry{name: first, dir: dir})
	}

	for file := range m.files {
		if strings.HasPrefix(file, name+"/") {
			addChild(file, false)
		}
	}
	for dir := range m.dirs {
		if strings.HasPrefix(dir, name+"/") {
			addChild(dir, true)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

type memInfo struct {
	name string
	size int64
	dir  bool
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return i.dir }
func (i memInfo) Sys() interface{}   { return nil }
func (i memInfo) Mode() os.FileMode {
	if i.dir {
		return 0755 | os.ModeDir
	}
	return 0644
}

type memEntry struct {
	name string
	dir  bool
}

func (e memEntry) Name() string { return e.name }
func (e memEntry) IsDir() bool  { return e.dir }
func (e memEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}
func (e memEntry) Info() (fs.FileInfo, error) {
	return memInfo{name: e.name, dir: e.dir}, nil
}
