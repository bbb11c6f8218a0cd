package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wcerrors "github.com/gcbaptista/go-wc/internal/errors"
	"github.com/gcbaptista/go-wc/internal/frequency"
)

func TestSaveLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "table.gob")
	table := frequency.FromText("hello world hello world hello test test")

	require.NoError(t, SaveTable(path, table, []string{"a.txt"}))

	loaded, snap, err := LoadTable(path)
	require.NoError(t, err)
	assert.True(t, table.Equal(loaded))
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, []string{"a.txt"}, snap.Inputs)
	assert.False(t, snap.CreatedAt.IsZero())

	// no temporary files are left next to the snapshot
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveTable_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gob")
	require.NoError(t, SaveTable(path, nil, nil))

	loaded, _, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
	loaded.Record("x") // must be writable
}

func TestLoadTable_Missing(t *testing.T) {
	_, _, err := LoadTable(filepath.Join(t.TempDir(), "nope.gob"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadTable_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	_, _, err := LoadTable(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wcerrors.ErrSnapshotCorrupt))
}

func TestLoadTable_WrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v0.gob")
	require.NoError(t, SaveGob(path, &Snapshot{Version: 99, Counts: map[string]int{"a": 1}}))

	_, _, err := LoadTable(path)
	assert.True(t, errors.Is(err, wcerrors.ErrSnapshotCorrupt))
}

func TestLoadTables_Merges(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.gob")
	b := filepath.Join(dir, "b.gob")
	require.NoError(t, SaveTable(a, frequency.FromText("hello world hello world hello test test"), nil))
	require.NoError(t, SaveTable(b, frequency.FromText("example example example test test test test hello"), nil))

	total, err := LoadTables([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, frequency.Table{"hello": 4, "world": 2, "test": 6, "example": 3}, total)

	_, err = LoadTables([]string{a, filepath.Join(dir, "missing.gob")})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
