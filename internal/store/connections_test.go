package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempConnections(t *testing.T) *Connections {
	t.Helper()
	return NewConnections(filepath.Join(t.TempDir(), "connections.json"))
}

func TestConnections_LoadMissingFile(t *testing.T) {
	c := tempConnections(t)
	assert.Empty(t, c.Load())
}

func TestConnections_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connections.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	c := NewConnections(path)
	assert.Empty(t, c.Load())
}

func TestConnections_AddAndLoad(t *testing.T) {
	c := tempConnections(t)

	conn, err := c.Add("item-1", "chequing")
	require.NoError(t, err)
	assert.Equal(t, "item-1", conn.ID)
	assert.Equal(t, "chequing", conn.Name)

	// Timestamp uses the fixed layout and is recent.
	added, err := time.Parse(DateFormat, conn.DateAdded)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), added, time.Minute)

	loaded := c.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, conn, loaded[0])
}

func TestConnections_AddPreservesOrder(t *testing.T) {
	c := tempConnections(t)

	_, err := c.Add("item-1", "chequing")
	require.NoError(t, err)
	_, err = c.Add("item-2", "savings")
	require.NoError(t, err)

	loaded := c.Load()
	require.Len(t, loaded, 2)
	assert.Equal(t, "chequing", loaded[0].Name)
	assert.Equal(t, "savings", loaded[1].Name)
}

func TestConnections_AddDuplicateName(t *testing.T) {
	c := tempConnections(t)

	_, err := c.Add("item-1", "chequing")
	require.NoError(t, err)

	_, err = c.Add("item-2", "chequing")
	require.Error(t, err)

	var dup *DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "chequing", dup.Name)

	// Nothing was written for the rejected add.
	require.Len(t, c.Load(), 1)
	assert.Equal(t, "item-1", c.Load()[0].ID)
}

func TestConnections_Remove(t *testing.T) {
	c := tempConnections(t)

	_, err := c.Add("item-1", "chequing")
	require.NoError(t, err)
	_, err = c.Add("item-2", "savings")
	require.NoError(t, err)

	require.NoError(t, c.Remove("chequing"))

	loaded := c.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, "savings", loaded[0].Name)
}

func TestConnections_RemoveUnknown(t *testing.T) {
	c := tempConnections(t)
	assert.Error(t, c.Remove("no-such-connection"))
}

func TestConnections_FindByName(t *testing.T) {
	c := tempConnections(t)

	_, err := c.Add("item-1", "chequing")
	require.NoError(t, err)

	conn, ok := c.FindByName("chequing")
	assert.True(t, ok)
	assert.Equal(t, "item-1", conn.ID)

	_, ok = c.FindByName("savings")
	assert.False(t, ok)
}
