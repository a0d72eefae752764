package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotFound is returned by Read when an artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Store reads and writes artifact files. Paths are opaque keys; FS resolves
// them against the filesystem.
type Store interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	Exists(path string) bool
}

// FS is the filesystem store. Relative paths resolve against Root when it
// is set.
type FS struct {
	Root string
}

// NewFS returns a filesystem store rooted at root ("" for the working
// directory).
func NewFS(root string) *FS {
	return &FS{Root: root}
}

func (s *FS) resolve(path string) string {
	if s.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Root, path)
}

// Read returns the file contents, or ErrNotFound.
func (s *FS) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the file atomically: the data goes to a temporary file in
// the same directory, which is then renamed over the target. The target's
// permissions are kept when it already exists.
func (s *FS) Write(path string, data []byte) error {
	full := s.resolve(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(full); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path names a regular file.
func (s *FS) Exists(path string) bool {
	info, err := os.Stat(s.resolve(path))
	return err == nil && info.Mode().IsRegular()
}

// Memory is an in-memory store for tests.
type Memory struct {
	files  map[string][]byte
	writes []string
}

// NewMemory returns a store preloaded with files.
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: make(map[string][]byte, len(files))}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

func (m *Memory) Read(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Write(path string, data []byte) error {
	m.files[path] = append([]byte(nil), data...)
	m.writes = append(m.writes, path)
	return nil
}

func (m *Memory) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

// Writes returns the paths written, in order, with repeats.
func (m *Memory) Writes() []string {
	return append([]string(nil), m.writes...)
}

// String returns the contents of path, or "" when it is absent.
func (m *Memory) String(path string) string {
	return string(m.files[path])
}

// Paths returns every stored path, sorted.
func (m *Memory) Paths() []string {
	out := make([]string, 0, len(m.files))
	for k := range m.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
