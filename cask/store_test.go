package cask_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logcask/logcask/cask"
)

func openStore(t *testing.T, dir string) *cask.Store {
	t.Helper()
	store, err := cask.Open(dir)
	require.Nil(t, err)
	return store
}

func logSize(t *testing.T, dir string) int64 {
	t.Helper()
	fi, err := os.Stat(filepath.Join(dir, "store.log"))
	require.Nil(t, err)
	return fi.Size()
}

func TestSetGetUpdate(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	defer store.Close()

	require.Nil(t, store.Set("user", "Alice"))
	require.Nil(t, store.Set("email", "a@x"))
	require.Nil(t, store.Set("user", "Bob"))

	value, ok, err := store.Get("user")
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bob", value)

	value, ok, err = store.Get("email")
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@x", value)

	_, ok, err = store.Get("missing")
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestRemoveThenGet(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	defer store.Close()

	require.Nil(t, store.Set("k", "v"))
	require.Nil(t, store.Remove("k"))

	_, ok, err := store.Get("k")
	require.Nil(t, err)
	assert.False(t, ok)

	err = store.Remove("k")
	require.NotNil(t, err)
	assert.IsType(t, cask.KeyNotFoundError(""), err)
}

func TestReopenDurability(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	require.Nil(t, store.Set("user", "Alice"))
	require.Nil(t, store.Set("email", "a@x"))
	require.Nil(t, store.Set("user", "Bob"))
	require.Nil(t, store.Close())

	store = openStore(t, dir)
	defer store.Close()

	value, ok, err := store.Get("user")
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bob", value)

	value, ok, err = store.Get("email")
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@x", value)

	_, ok, err = store.Get("missing")
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestTombstoneSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	require.Nil(t, store.Set("k", "v"))
	require.Nil(t, store.Remove("k"))
	require.Nil(t, store.Close())

	store = openStore(t, dir)
	defer store.Close()

	_, ok, err := store.Get("k")
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestInvalidKeyRejected(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	defer store.Close()

	require.Nil(t, store.Set("k", "v"))
	before := logSize(t, dir)

	err := store.Set("", "v")
	require.NotNil(t, err)
	assert.IsType(t, cask.InvalidKeyError(""), err)

	err = store.Remove("")
	require.NotNil(t, err)
	assert.IsType(t, cask.InvalidKeyError(""), err)

	// The empty key is never stored, so a get is an ordinary miss.
	_, ok, err := store.Get("")
	require.Nil(t, err)
	assert.False(t, ok)

	assert.Equal(t, before, logSize(t, dir))
}

func TestRemoveAbsentKeyAppendsNothing(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	defer store.Close()

	require.Nil(t, store.Set("k", "v"))
	before := logSize(t, dir)

	err := store.Remove("never-set")
	require.NotNil(t, err)
	assert.IsType(t, cask.KeyNotFoundError(""), err)
	assert.Equal(t, before, logSize(t, dir))
}

func TestStatsAccounting(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	defer store.Close()

	setRec, err := cask.NewSet("k", "v1").Encode()
	require.Nil(t, err)
	overwriteRec, err := cask.NewSet("k", "v2").Encode()
	require.Nil(t, err)
	keepRec, err := cask.NewSet("keep", "x").Encode()
	require.Nil(t, err)
	tombRec, err := cask.NewRemove("k").Encode()
	require.Nil(t, err)

	require.Nil(t, store.Set("k", "v1"))
	require.Nil(t, store.Set("k", "v2"))
	require.Nil(t, store.Set("keep", "x"))
	require.Nil(t, store.Remove("k"))

	st := store.Stats()
	assert.Equal(t, 1, st.Keys)
	assert.Equal(t, int64(len(keepRec)), st.LiveBytes)
	// The first set, its overwrite and the tombstone are all stale.
	assert.Equal(t, int64(len(setRec)+len(overwriteRec)+len(tombRec)), st.UncompactedBytes)
	assert.Equal(t, int64(len(setRec)+len(overwriteRec)+len(keepRec)+len(tombRec)), st.LogBytes)

	// Replay reconstructs the same accounting.
	require.Nil(t, store.Close())
	store = openStore(t, dir)
	assert.Equal(t, st, store.Stats())
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	require.Nil(t, store.Set("k", "v"))
	require.Nil(t, store.Close())

	assert.IsType(t, cask.NotOpenError(""), store.Set("k", "v"))
	assert.IsType(t, cask.NotOpenError(""), store.Remove("k"))
	assert.IsType(t, cask.NotOpenError(""), store.Compact())
	_, _, err := store.Get("k")
	assert.IsType(t, cask.NotOpenError(""), err)
	assert.IsType(t, cask.NotOpenError(""), store.Close())
}

func TestGetDoesNotDisturbWriter(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	defer store.Close()

	// Interleave reads and writes; each read opens its own handle, so
	// the append position must be unaffected.
	require.Nil(t, store.Set("a", "1"))
	_, _, err := store.Get("a")
	require.Nil(t, err)
	require.Nil(t, store.Set("b", "2"))
	_, _, err = store.Get("b")
	require.Nil(t, err)
	require.Nil(t, store.Set("a", "3"))

	value, ok, err := store.Get("a")
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", value)
}
