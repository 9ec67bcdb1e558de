package tombstone

import (
	"os"
	"path/filepath"
	"testing"

	"fifa-tracker/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSet(t *testing.T, path string) *Set {
	t.Helper()
	return New(&config.Config{TombstonePath: path}, zerolog.Nop())
}

func TestAddPersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deleted_matches.json")

	set := newSet(t, path)
	set.Add(7)
	set.Add(42)

	require.True(t, set.Contains(7))
	require.True(t, set.Contains(42))
	assert.False(t, set.Contains(1))
	assert.Equal(t, 2, set.Len())

	// The file must exist the moment Add returns.
	_, err := os.Stat(path)
	require.NoError(t, err)

	reloaded := newSet(t, path)
	assert.True(t, reloaded.Contains(7))
	assert.True(t, reloaded.Contains(42))
	assert.Equal(t, 2, reloaded.Len())
}

func TestClearRemovesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deleted_matches.json")

	set := newSet(t, path)
	set.Add(7)
	set.Clear()

	assert.False(t, set.Contains(7))
	assert.Equal(t, 0, set.Len())

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	reloaded := newSet(t, path)
	assert.Equal(t, 0, reloaded.Len())
}

func TestCorruptFileIgnored(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deleted_matches.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	set := newSet(t, path)
	assert.Equal(t, 0, set.Len())

	// Still usable after a bad load.
	set.Add(3)
	assert.True(t, set.Contains(3))
}
