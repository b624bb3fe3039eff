// Package vfs exposes the host's virtual filesystem to the command channel.
//
// The host hands yn-hub a raw filesystem handle (RawFS). Adapter layers path
// normalization under a single virtual root on top of it and maps failures
// onto ErrNotFound and ErrIO.
//
// Example usage:
//
//	a := vfs.NewAdapter(vfs.NewOSFS("/var/lib/yn-hub"), vfs.DefaultRoot, logger.Default())
//	if err := a.WriteFile("texts/current_action.txt", ""); err != nil {
//	    log.Fatal(err)
//	}
package vfs

import (
	"io/fs"
)

// DefaultRoot is the virtual root every path is normalized under.
const DefaultRoot = "/easyrpg"

// RawFS is the capability set the host filesystem must provide.
//
// Paths are slash-separated and absolute within the virtual filesystem.
// Errors for missing paths must satisfy errors.Is(err, fs.ErrNotExist).
type RawFS interface {
	// Stat returns file info for the named path.
	Stat(name string) (fs.FileInfo, error)

	// ReadDir returns the entries of the named directory, sorted by name.
	ReadDir(name string) ([]fs.DirEntry, error)

	// MkdirAll creates a directory and all missing parents.
	MkdirAll(name string, perm fs.FileMode) error

	// ReadFile returns the full contents of the named file.
	ReadFile(name string) ([]byte, error)

	// WriteFile replaces the contents of the named file, creating it if needed.
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// EntryType classifies a directory entry.
type EntryType string

// Entry types reported by ListDirectory.
const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
	EntryUnknown   EntryType = "unknown"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name string    `json:"name"`
	Type EntryType `json:"type"`
}
