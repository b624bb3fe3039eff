package vfs

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemFS is an in-memory RawFS.
//
// It is safe for concurrent use and supports failure injection per path,
// which makes it the usual test double for the host filesystem.
type MemFS struct {
	mu    sync.Mutex
	nodes map[string]*memNode

	failRead  map[string]error
	failWrite map[string]error
	failStat  map[string]error

	reads  map[string]int
	writes map[string]int
}

type memNode struct {
	dir     bool
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS returns an empty MemFS containing only "/".
func NewMemFS() *MemFS {
	return &MemFS{
		nodes:     map[string]*memNode{"/": {dir: true, mode: fs.ModeDir | 0755}},
		failRead:  make(map[string]error),
		failWrite: make(map[string]error),
		failStat:  make(map[string]error),
		reads:     make(map[string]int),
		writes:    make(map[string]int),
	}
}

// FailRead makes ReadFile of name return err. A nil err clears the fault.
func (m *MemFS) FailRead(name string, err error) {
	m.setFault(m.failRead, name, err)
}

// FailWrite makes WriteFile and MkdirAll of name return err.
func (m *MemFS) FailWrite(name string, err error) {
	m.setFault(m.failWrite, name, err)
}

// FailStat makes Stat of name return err.
func (m *MemFS) FailStat(name string, err error) {
	m.setFault(m.failStat, name, err)
}

// Reads returns how many times ReadFile was called for name.
func (m *MemFS) Reads(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[clean(name)]
}

// Writes returns how many successful WriteFile calls targeted name.
func (m *MemFS) Writes(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[clean(name)]
}

func (m *MemFS) setFault(faults map[string]error, name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(faults, clean(name))
		return
	}
	faults[clean(name)] = err
}

// Stat implements RawFS.
func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	if err := m.failStat[name]; err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	node, ok := m.nodes[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return memInfo{name: path.Base(name), node: *node}, nil
}

// ReadDir implements RawFS.
func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	node, ok := m.nodes[name]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	if !node.dir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fmt.Errorf("not a directory")}
	}

	prefix := name
	if prefix != "/" {
		prefix += "/"
	}

	var entries []fs.DirEntry
	for p, child := range m.nodes {
		if p == name || !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		entries = append(entries, fs.FileInfoToDirEntry(memInfo{name: rest, node: *child}))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	return entries, nil
}

// MkdirAll implements RawFS.
func (m *MemFS) MkdirAll(name string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	if err := m.failWrite[name]; err != nil {
		return &fs.PathError{Op: "mkdir", Path: name, Err: err}
	}

	current := ""
	for _, part := range strings.Split(strings.TrimPrefix(name, "/"), "/") {
		if part == "" {
			continue
		}
		current += "/" + part
		node, ok := m.nodes[current]
		if ok {
			if !node.dir {
				return &fs.PathError{Op: "mkdir", Path: current, Err: fmt.Errorf("not a directory")}
			}
			continue
		}
		m.nodes[current] = &memNode{dir: true, mode: fs.ModeDir | perm, modTime: time.Now()}
	}
	return nil
}

// ReadFile implements RawFS.
func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	m.reads[name]++
	if err := m.failRead[name]; err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	node, ok := m.nodes[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	if node.dir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fmt.Errorf("is a directory")}
	}
	return append([]byte(nil), node.data...), nil
}

// WriteFile implements RawFS. The parent directory must already exist.
func (m *MemFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	if err := m.failWrite[name]; err != nil {
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}
	parent, ok := m.nodes[path.Dir(name)]
	if !ok || !parent.dir {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrNotExist}
	}
	if node, exists := m.nodes[name]; exists && node.dir {
		return &fs.PathError{Op: "write", Path: name, Err: fmt.Errorf("is a directory")}
	}

	m.nodes[name] = &memNode{data: append([]byte(nil), data...), mode: perm, modTime: time.Now()}
	m.writes[name]++
	return nil
}

func clean(name string) string {
	return path.Clean("/" + name)
}

type memInfo struct {
	name string
	node memNode
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return int64(len(i.node.data)) }
func (i memInfo) Mode() fs.FileMode  { return i.node.mode }
func (i memInfo) ModTime() time.Time { return i.node.modTime }
func (i memInfo) IsDir() bool        { return i.node.dir }
func (i memInfo) Sys() interface{}   { return nil }
