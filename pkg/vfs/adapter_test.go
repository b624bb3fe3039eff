package vfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetrotal/YN-HUB/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*Adapter, *MemFS) {
	t.Helper()
	mem := NewMemFS()
	return NewAdapter(mem, DefaultRoot, logger.Noop()), mem
}

func TestNormalize(t *testing.T) {
	a, _ := newTestAdapter(t)

	tests := []struct {
		in   string
		want string
	}{
		{"texts/current_action.txt", "/easyrpg/texts/current_action.txt"},
		{"/texts/current_action.txt", "/easyrpg/texts/current_action.txt"},
		{"///texts/a.txt", "/easyrpg/texts/a.txt"},
		{"/easyrpg/texts/a.txt", "/easyrpg/texts/a.txt"},
		{"", "/easyrpg/"},
		{"/", "/easyrpg/"},
		{`\texts\a.txt`, `/easyrpg/texts\a.txt`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	a, _ := newTestAdapter(t)

	inputs := []string{
		"", "/", "//", "a", "/a", "//a/b", "easyrpg", "/easyrpg", "/easyrpg/x",
		"easyrpg/x", "../up", "/./dot", `\\win\path`, "/easyrpgsuffix", "texts/current_action.txt",
	}
	for _, in := range inputs {
		once := a.Normalize(in)
		assert.Equal(t, once, a.Normalize(once), "input %q", in)
		assert.Equal(t, a.Root(), once[:len(a.Root())], "input %q", in)
	}
}

func TestNewAdapterRoot(t *testing.T) {
	mem := NewMemFS()

	assert.Equal(t, DefaultRoot, NewAdapter(mem, "", logger.Noop()).Root())
	assert.Equal(t, "/data", NewAdapter(mem, "data/", logger.Noop()).Root())
	assert.Equal(t, "/data", NewAdapter(mem, " /data ", logger.Noop()).Root())
}

func TestWriteFileCreatesParents(t *testing.T) {
	a, _ := newTestAdapter(t)

	assert.False(t, a.Exists("deep/nested/dir"))

	require.NoError(t, a.WriteFile("deep/nested/dir/file.txt", "hello"))

	assert.True(t, a.Exists("deep"))
	assert.True(t, a.Exists("deep/nested"))
	assert.True(t, a.Exists("deep/nested/dir"))

	got, err := a.ReadFile("deep/nested/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestWriteFileOverwrites(t *testing.T) {
	a, _ := newTestAdapter(t)

	require.NoError(t, a.WriteFile("texts/current_action.txt", "gotoURL https://example.com"))
	require.NoError(t, a.WriteFile("texts/current_action.txt", "x"))

	got, err := a.ReadFile("texts/current_action.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestReadFileNotFound(t *testing.T) {
	a, _ := newTestAdapter(t)

	_, err := a.ReadFile("missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFileIOError(t *testing.T) {
	a, mem := newTestAdapter(t)
	require.NoError(t, a.WriteFile("f.txt", "data"))

	boom := errors.New("disk on fire")
	mem.FailRead("/easyrpg/f.txt", boom)

	_, err := a.ReadFile("f.txt")
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestWriteFileIOError(t *testing.T) {
	a, mem := newTestAdapter(t)

	boom := errors.New("read-only")
	mem.FailWrite("/easyrpg/texts/a.txt", boom)

	err := a.WriteFile("texts/a.txt", "x")
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, boom)
}

func TestWriteFileMkdirFailure(t *testing.T) {
	a, mem := newTestAdapter(t)

	mem.FailWrite("/easyrpg/locked", errors.New("denied"))

	err := a.WriteFile("locked/a.txt", "x")
	assert.ErrorIs(t, err, ErrIO)
	assert.False(t, a.Exists("locked/a.txt"))
}

func TestExistsSwallowsErrors(t *testing.T) {
	a, mem := newTestAdapter(t)
	require.NoError(t, a.WriteFile("f.txt", ""))

	assert.True(t, a.Exists("f.txt"))

	mem.FailStat("/easyrpg/f.txt", errors.New("stat failed"))
	assert.False(t, a.Exists("f.txt"))
}

func TestListDirectory(t *testing.T) {
	a, _ := newTestAdapter(t)
	require.NoError(t, a.WriteFile("games/b.txt", "b"))
	require.NoError(t, a.WriteFile("games/a.txt", "a"))
	require.NoError(t, a.WriteFile("games/sub/c.txt", "c"))

	entries, err := a.ListDirectory("games")
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Name: "a.txt", Type: EntryFile},
		{Name: "b.txt", Type: EntryFile},
		{Name: "sub", Type: EntryDirectory},
	}, entries)
}

func TestListDirectoryUnknownEntry(t *testing.T) {
	a, mem := newTestAdapter(t)
	require.NoError(t, a.WriteFile("games/a.txt", "a"))
	require.NoError(t, a.WriteFile("games/b.txt", "b"))

	mem.FailStat("/easyrpg/games/b.txt", errors.New("permission denied"))

	entries, err := a.ListDirectory("games")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, EntryFile, entries[0].Type)
	assert.Equal(t, Entry{Name: "b.txt", Type: EntryUnknown}, entries[1])
}

func TestListDirectoryNotFound(t *testing.T) {
	a, _ := newTestAdapter(t)

	_, err := a.ListDirectory("nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOSFSAdapter(t *testing.T) {
	base := t.TempDir()
	a := NewAdapter(NewOSFS(base), DefaultRoot, logger.Noop())

	require.NoError(t, a.WriteFile("texts/current_action.txt", "gotoURL https://example.com"))

	hostPath := filepath.Join(base, "easyrpg", "texts", "current_action.txt")
	data, err := os.ReadFile(hostPath) // nolint:gosec
	require.NoError(t, err)
	assert.Equal(t, "gotoURL https://example.com", string(data))

	entries, err := a.ListDirectory("texts")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "current_action.txt", Type: EntryFile}}, entries)

	_, err = a.ReadFile("texts/missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOSFSResolveStaysUnderBase(t *testing.T) {
	o := NewOSFS("/srv/hub")

	assert.Equal(t, filepath.Join("/srv/hub", "easyrpg", "a.txt"), o.Resolve("/easyrpg/a.txt"))
	assert.Equal(t, filepath.Join("/srv/hub", "etc", "passwd"), o.Resolve("/easyrpg/../../etc/passwd"))
}
