package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakaleshhubli/books-api/internal/model"
	"github.com/sakaleshhubli/books-api/internal/pkg/config"
	"github.com/sakaleshhubli/books-api/internal/storage"
)

func newTestDataManager(t *testing.T) (*DataManager, *storage.Collection[model.Book], *storage.Collection[model.Author]) {
	t.Helper()
	root := t.TempDir()

	cfg := config.StorageConfig{
		DataDir:            filepath.Join(root, "data"),
		BooksFile:          "books.json",
		AuthorsFile:        "authors.json",
		UsersFile:          "users.json",
		BackupDir:          filepath.Join(root, "backups"),
		DefaultBooksFile:   filepath.Join(root, "default_books.json"),
		DefaultAuthorsFile: filepath.Join(root, "default_authors.json"),
	}

	defaults := []model.Book{{ID: 1, Title: "Default Book", Author: "Someone"}}
	writeJSON(t, cfg.DefaultBooksFile, defaults)
	writeJSON(t, cfg.DefaultAuthorsFile, []model.Author{{ID: 1, Name: "Default Author"}})

	books, err := storage.Open[model.Book](cfg.BooksPath())
	require.NoError(t, err)
	authors, err := storage.Open[model.Author](cfg.AuthorsPath())
	require.NoError(t, err)

	return NewDataManager(books, authors, cfg, zap.NewNop()), books, authors
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func addBook(t *testing.T, books *storage.Collection[model.Book], title string) model.Book {
	t.Helper()
	book, err := books.Insert(func(id int) model.Book {
		return model.NewBook(id, model.CreateBookInput{Title: title, Author: "Author"}, time.Now())
	})
	require.NoError(t, err)
	return book
}

func TestEnsureSeeded(t *testing.T) {
	m, books, authors := newTestDataManager(t)

	require.NoError(t, m.EnsureSeeded())
	assert.Equal(t, 1, books.Len())
	assert.Equal(t, 1, authors.Len())

	// Seeding is a first-run operation only.
	addBook(t, books, "User Added")
	require.NoError(t, m.EnsureSeeded())
	assert.Equal(t, 2, books.Len())
}

func TestStats(t *testing.T) {
	m, books, _ := newTestDataManager(t)
	addBook(t, books, "A Book")

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.BooksCount)
	assert.Equal(t, 0, stats.AuthorsCount)
	assert.Greater(t, stats.BooksFileSize, int64(0))
	assert.Contains(t, stats.LastModified, "books")
}

func TestBackup(t *testing.T) {
	m, books, _ := newTestDataManager(t)
	addBook(t, books, "A Book")

	info, err := m.Backup("snapshot")
	require.NoError(t, err)
	assert.Contains(t, info.Path, "snapshot")

	copied, err := os.ReadFile(filepath.Join(info.Path, "books.json"))
	require.NoError(t, err)
	original, err := os.ReadFile(books.Path())
	require.NoError(t, err)
	assert.Equal(t, original, copied)
}

func TestBackupDefaultName(t *testing.T) {
	m, books, _ := newTestDataManager(t)
	addBook(t, books, "A Book")

	info, err := m.Backup("")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(info.Path), "backup_")
}

func TestResetRestoresDefaults(t *testing.T) {
	m, books, authors := newTestDataManager(t)
	addBook(t, books, "Custom Book")
	addBook(t, books, "Another Book")

	backup, err := m.Reset()
	require.NoError(t, err)
	assert.Contains(t, backup.Path, "before_reset")

	assert.Equal(t, 1, books.Len())
	assert.Equal(t, 1, authors.Len())

	got, err := books.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Default Book", got.Title)
}

func TestExportImportRoundTrip(t *testing.T) {
	m, books, authors := newTestDataManager(t)
	addBook(t, books, "Exported Book")

	payload := m.Export()
	require.Len(t, payload.Books, 1)
	assert.False(t, payload.ExportedAt.IsZero())

	// Wipe and import the snapshot back.
	require.NoError(t, books.ReplaceAll([]model.Book{}))
	backup, err := m.Import(*payload)
	require.NoError(t, err)
	assert.Contains(t, backup.Path, "before_import")

	assert.Equal(t, 1, books.Len())
	got, err := books.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Exported Book", got.Title)

	assert.Equal(t, 0, authors.Len())
}

func TestImportPartialPayload(t *testing.T) {
	m, books, authors := newTestDataManager(t)
	addBook(t, books, "Keep Me")

	_, err := m.Import(ExportPayload{
		Authors: []model.Author{{ID: 1, Name: "Imported Author"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, books.Len())
	assert.Equal(t, 1, authors.Len())
}
