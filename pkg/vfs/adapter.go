package vfs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/jetrotal/YN-HUB/pkg/logger"
)

const (
	dirPerm  fs.FileMode = 0755
	filePerm fs.FileMode = 0644
)

// Adapter normalizes paths under a fixed root and wraps a RawFS.
//
// Adapter is safe for concurrent use when the underlying RawFS is.
type Adapter struct {
	raw    RawFS
	root   string
	logger logger.Logger
}

// NewAdapter creates an adapter over raw. An empty root selects DefaultRoot.
func NewAdapter(raw RawFS, root string, log logger.Logger) *Adapter {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	if root == "" {
		root = DefaultRoot
	}
	if !strings.HasPrefix(root, "/") {
		root = "/" + root
	}
	return &Adapter{raw: raw, root: root, logger: log}
}

// Root returns the virtual root.
func (a *Adapter) Root() string {
	return a.root
}

// Normalize maps p onto the virtual root.
//
// A path already beginning with the root is returned unchanged; otherwise
// leading separators are stripped and the root is prepended. Normalize is
// idempotent.
func (a *Adapter) Normalize(p string) string {
	if strings.HasPrefix(p, a.root) {
		return p
	}
	return a.root + "/" + strings.TrimLeft(p, `/\`)
}

// Exists reports whether p exists. Any error counts as absence.
func (a *Adapter) Exists(p string) bool {
	_, err := a.raw.Stat(a.Normalize(p))
	return err == nil
}

// ListDirectory returns the entries of p in the order the host reports them.
//
// An entry whose type cannot be determined is reported as EntryUnknown
// instead of failing the listing.
func (a *Adapter) ListDirectory(p string) ([]Entry, error) {
	dir := a.Normalize(p)
	if !a.Exists(dir) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	dirEntries, err := a.raw.ReadDir(dir)
	if err != nil {
		return nil, classify("list", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry := Entry{Name: de.Name(), Type: EntryUnknown}

		info, statErr := a.raw.Stat(path.Join(dir, de.Name()))
		switch {
		case statErr != nil:
			a.logger.Debug("cannot classify directory entry",
				"path", dir,
				"name", de.Name(),
				"error", statErr)
		case info.IsDir():
			entry.Type = EntryDirectory
		default:
			entry.Type = EntryFile
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// ReadFile returns the text content of p.
func (a *Adapter) ReadFile(p string) (string, error) {
	name := a.Normalize(p)

	data, err := a.raw.ReadFile(name)
	if err != nil {
		return "", classify("read", name, err)
	}
	return string(data), nil
}

// WriteFile replaces the content of p, creating missing parent directories.
func (a *Adapter) WriteFile(p, content string) error {
	name := a.Normalize(p)

	if err := a.raw.MkdirAll(path.Dir(name), dirPerm); err != nil {
		return fmt.Errorf("%w: mkdir %s: %w", ErrIO, path.Dir(name), err)
	}
	if err := a.raw.WriteFile(name, []byte(content), filePerm); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, name, err)
	}

	a.logger.Debug("file written", "path", name, "bytes", len(content))
	return nil
}

func classify(op, name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s %s: %w", ErrNotFound, op, name, err)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, name, err)
}
