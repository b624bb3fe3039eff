package journal

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetrotal/YN-HUB/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBolt(t *testing.T, max int) (Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "journal.db")
	j, err := Open(Config{Path: path, MaxEntries: max}, logger.Noop())
	require.NoError(t, err)
	return j, path
}

func implementations(t *testing.T, max int) map[string]Journal {
	bolt, _ := openBolt(t, max)
	return map[string]Journal{
		"bolt":   bolt,
		"memory": NewMemory(max),
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{}, logger.Noop())
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestRecordAndList(t *testing.T) {
	for name, j := range implementations(t, 0) {
		t.Run(name, func(t *testing.T) {
			defer func() { assert.NoError(t, j.Close()) }()

			at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			require.NoError(t, j.Record(Entry{Content: "gotoURL https://a.example", Location: "https://a.example", Outcome: "navigated", Time: at}))
			require.NoError(t, j.Record(Entry{Content: "somethingElse", Outcome: "ignored"}))
			require.NoError(t, j.Record(Entry{Content: "gotoURL nope", Outcome: "invalid", Error: "missing scheme"}))

			entries, err := j.List(0)
			require.NoError(t, err)
			require.Len(t, entries, 3)

			assert.Equal(t, "invalid", entries[0].Outcome)
			assert.Equal(t, "missing scheme", entries[0].Error)
			assert.Equal(t, "ignored", entries[1].Outcome)
			assert.Equal(t, "navigated", entries[2].Outcome)
			assert.Equal(t, "https://a.example", entries[2].Location)
			assert.True(t, at.Equal(entries[2].Time))

			for _, e := range entries {
				assert.NotEmpty(t, e.ID)
				assert.False(t, e.Time.IsZero())
			}

			limited, err := j.List(2)
			require.NoError(t, err)
			assert.Len(t, limited, 2)
			assert.Equal(t, entries[0].ID, limited[0].ID)
		})
	}
}

func TestPruning(t *testing.T) {
	for name, j := range implementations(t, 3) {
		t.Run(name, func(t *testing.T) {
			defer func() { assert.NoError(t, j.Close()) }()

			for i := 0; i < 10; i++ {
				require.NoError(t, j.Record(Entry{Content: fmt.Sprintf("cmd-%d", i), Outcome: "ignored"}))
			}

			entries, err := j.List(0)
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, "cmd-9", entries[0].Content)
			assert.Equal(t, "cmd-7", entries[2].Content)
		})
	}
}

func TestClosed(t *testing.T) {
	for name, j := range implementations(t, 0) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, j.Close())
			require.NoError(t, j.Close())

			assert.ErrorIs(t, j.Record(Entry{Outcome: "ignored"}), ErrClosed)
			_, err := j.List(0)
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	j, path := openBolt(t, 0)
	require.NoError(t, j.Record(Entry{Content: "gotoURL https://example.com", Outcome: "navigated"}))
	require.NoError(t, j.Close())

	reopened, err := Open(Config{Path: path}, logger.Noop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, reopened.Close()) }()

	entries, err := reopened.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gotoURL https://example.com", entries[0].Content)
}
