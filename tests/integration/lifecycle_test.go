// Integration tests exercising the full note lifecycle through the public
// notepad API: bootstrap, add, save, soft delete, restore, purge, reopen.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aens/unmemorize/pkg/notepad"
	"github.com/aens/unmemorize/pkg/types"
)

func TestNoteLifecycle(t *testing.T) {
	dir := t.TempDir()

	pad, err := notepad.Open(types.Config{NotesDir: dir}, nil)
	require.NoError(t, err)
	defer pad.Close()

	kind := types.KindRegular

	// Create and fill a note.
	id, err := pad.Add(kind, "Groceries")
	require.NoError(t, err)
	require.NoError(t, pad.Save(kind, id, "Groceries", "milk, eggs"))

	// Soft delete, then restore.
	require.NoError(t, pad.Delete(kind, id))
	require.NoError(t, pad.Restore(kind, id))

	require.NoError(t, pad.Reload(kind))
	note := pad.Notes(kind)[id]
	assert.Equal(t, "Groceries", note.Title)
	assert.Equal(t, "milk, eggs", note.Content)

	// Delete again and purge; the note is gone for good.
	require.NoError(t, pad.Delete(kind, id))
	require.NoError(t, pad.Purge(kind, id))
	assert.ErrorIs(t, pad.Restore(kind, id), types.ErrNotFound)
}

func TestNotesSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	pad, err := notepad.Open(types.Config{NotesDir: dir}, nil)
	require.NoError(t, err)

	regularID, err := pad.Add(types.KindRegular, "Groceries")
	require.NoError(t, err)
	privateID, err := pad.Add(types.KindPrivate, "Diary")
	require.NoError(t, err)
	require.NoError(t, pad.Save(types.KindPrivate, privateID, "Diary", "dear diary"))
	require.NoError(t, pad.Delete(types.KindRegular, regularID))
	require.NoError(t, pad.Close())

	pad, err = notepad.Open(types.Config{NotesDir: dir}, nil)
	require.NoError(t, err)
	defer pad.Close()

	require.NoError(t, pad.Reload(types.KindPrivate))
	assert.Equal(t, "dear diary", pad.Notes(types.KindPrivate)[privateID].Content)

	require.NoError(t, pad.ReloadDeleted(types.KindRegular))
	deleted := pad.DeletedNotes(types.KindRegular)
	require.Len(t, deleted, 1)
	assert.Equal(t, "Groceries", deleted[regularID].Title)
	assert.False(t, deleted[regularID].DeletedAt.IsZero())
}

func TestCachesArePullBased(t *testing.T) {
	dir := t.TempDir()

	pad, err := notepad.Open(types.Config{NotesDir: dir}, nil)
	require.NoError(t, err)
	defer pad.Close()

	kind := types.KindRegular
	require.NoError(t, pad.Reload(kind))

	_, err = pad.Add(kind, "Groceries")
	require.NoError(t, err)

	// The cache stays stale until the caller pulls.
	assert.Empty(t, pad.Notes(kind))
	require.NoError(t, pad.Reload(kind))
	assert.Len(t, pad.Notes(kind), 1)
}
