package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

func (n note) RecordID() int { return n.ID }

func openNotes(t *testing.T) *Collection[note] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.json")
	c, err := Open[note](path)
	require.NoError(t, err)
	return c
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	c := openNotes(t)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.All())
}

func TestOpenReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":3,"text":"hello"}]`), 0o644))

	c, err := Open[note](path)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	got, err := c.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
}

func TestOpenRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := Open[note](path)
	assert.Error(t, err)
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	c := openNotes(t)

	first, err := c.Insert(func(id int) note { return note{ID: id, Text: "a"} })
	require.NoError(t, err)
	second, err := c.Insert(func(id int) note { return note{ID: id, Text: "b"} })
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
}

func TestInsertReusesIDAfterDeletingHighest(t *testing.T) {
	c := openNotes(t)

	for _, text := range []string{"a", "b", "c"} {
		_, err := c.Insert(func(id int) note { return note{ID: id, Text: text} })
		require.NoError(t, err)
	}

	_, err := c.Delete(3)
	require.NoError(t, err)

	inserted, err := c.Insert(func(id int) note { return note{ID: id, Text: "d"} })
	require.NoError(t, err)
	assert.Equal(t, 3, inserted.ID)
}

func TestGetNotFound(t *testing.T) {
	c := openNotes(t)
	_, err := c.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppliesAndPersists(t *testing.T) {
	c := openNotes(t)
	_, err := c.Insert(func(id int) note { return note{ID: id, Text: "old"} })
	require.NoError(t, err)

	updated, err := c.Update(1, func(n note) note {
		n.Text = "new"
		return n
	})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Text)

	reopened, err := Open[note](c.Path())
	require.NoError(t, err)
	got, err := reopened.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Text)
}

func TestUpdateNotFound(t *testing.T) {
	c := openNotes(t)
	_, err := c.Update(1, func(n note) note { return n })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesAndPersists(t *testing.T) {
	c := openNotes(t)
	_, err := c.Insert(func(id int) note { return note{ID: id, Text: "a"} })
	require.NoError(t, err)

	deleted, err := c.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, "a", deleted.Text)
	assert.Equal(t, 0, c.Len())

	_, err = c.Delete(1)
	assert.ErrorIs(t, err, ErrNotFound)

	reopened, err := Open[note](c.Path())
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())
}

func TestFind(t *testing.T) {
	c := openNotes(t)
	_, err := c.Insert(func(id int) note { return note{ID: id, Text: "target"} })
	require.NoError(t, err)

	got, found := c.Find(func(n note) bool { return n.Text == "target" })
	assert.True(t, found)
	assert.Equal(t, 1, got.ID)

	_, found = c.Find(func(n note) bool { return n.Text == "missing" })
	assert.False(t, found)
}

func TestReplaceAll(t *testing.T) {
	c := openNotes(t)
	_, err := c.Insert(func(id int) note { return note{ID: id, Text: "a"} })
	require.NoError(t, err)

	err = c.ReplaceAll([]note{{ID: 7, Text: "x"}, {ID: 9, Text: "y"}})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	inserted, err := c.Insert(func(id int) note { return note{ID: id, Text: "z"} })
	require.NoError(t, err)
	assert.Equal(t, 10, inserted.ID)
}

func TestAllReturnsCopy(t *testing.T) {
	c := openNotes(t)
	_, err := c.Insert(func(id int) note { return note{ID: id, Text: "a"} })
	require.NoError(t, err)

	items := c.All()
	items[0].Text = "mutated"

	got, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Text)
}
