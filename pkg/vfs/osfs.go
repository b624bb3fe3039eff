package vfs

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// OSFS implements RawFS on a host directory. Virtual paths are resolved
// beneath Base and cannot escape it.
type OSFS struct {
	Base string
}

// NewOSFS returns an OSFS rooted at base.
func NewOSFS(base string) *OSFS {
	return &OSFS{Base: base}
}

// Resolve returns the host path backing the virtual path name.
func (o *OSFS) Resolve(name string) string {
	return filepath.Join(o.Base, filepath.FromSlash(path.Clean("/"+name)))
}

// Stat delegates to os.Stat.
func (o *OSFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(o.Resolve(name))
}

// ReadDir delegates to os.ReadDir.
func (o *OSFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(o.Resolve(name))
}

// MkdirAll delegates to os.MkdirAll.
func (o *OSFS) MkdirAll(name string, perm fs.FileMode) error {
	return os.MkdirAll(o.Resolve(name), perm)
}

// ReadFile delegates to os.ReadFile.
func (o *OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(o.Resolve(name)) // nolint:gosec
}

// WriteFile delegates to os.WriteFile.
func (o *OSFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(o.Resolve(name), data, perm)
}
