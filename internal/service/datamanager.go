package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sakaleshhubli/books-api/internal/model"
	"github.com/sakaleshhubli/books-api/internal/pkg/config"
	"github.com/sakaleshhubli/books-api/internal/storage"
)

// DataManager implements the file-level snapshot operations: stats, backup,
// reset to defaults, export and import. Destructive operations back up the
// current files first.
type DataManager struct {
	books   *storage.Collection[model.Book]
	authors *storage.Collection[model.Author]
	cfg     config.StorageConfig
	logger  *zap.Logger
}

// NewDataManager creates a DataManager over the books and authors
// collections.
func NewDataManager(books *storage.Collection[model.Book], authors *storage.Collection[model.Author], cfg config.StorageConfig, logger *zap.Logger) *DataManager {
	return &DataManager{
		books:   books,
		authors: authors,
		cfg:     cfg,
		logger:  logger.Named("data"),
	}
}

// Stats describes the current state of the persisted collections.
type Stats struct {
	BooksCount      int                  `json:"books_count"`
	AuthorsCount    int                  `json:"authors_count"`
	BooksFileSize   int64                `json:"books_file_size"`
	AuthorsFileSize int64                `json:"authors_file_size"`
	LastModified    map[string]time.Time `json:"last_modified"`
}

// BackupInfo describes a created backup.
type BackupInfo struct {
	Path      string    `json:"backup_path"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportPayload is the round-trippable snapshot produced by Export and
// accepted by Import.
type ExportPayload struct {
	ExportedAt time.Time      `json:"export_timestamp"`
	Books      []model.Book   `json:"books"`
	Authors    []model.Author `json:"authors"`
}

// Stats gathers record counts and file metadata for both collections.
func (m *DataManager) Stats() (*Stats, error) {
	stats := &Stats{
		BooksCount:   m.books.Len(),
		AuthorsCount: m.authors.Len(),
		LastModified: make(map[string]time.Time),
	}

	if info, err := os.Stat(m.books.Path()); err == nil {
		stats.BooksFileSize = info.Size()
		stats.LastModified["books"] = info.ModTime()
	}
	if info, err := os.Stat(m.authors.Path()); err == nil {
		stats.AuthorsFileSize = info.Size()
		stats.LastModified["authors"] = info.ModTime()
	}

	return stats, nil
}

// Backup copies the current collection files into a timestamped directory
// under the backup dir. An empty name picks a timestamp-based one.
func (m *DataManager) Backup(name string) (*BackupInfo, error) {
	now := time.Now()
	if name == "" {
		name = fmt.Sprintf("backup_%s", now.Format("20060102_150405"))
	}

	dir := filepath.Join(m.cfg.BackupDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, src := range []string{m.books.Path(), m.authors.Path()} {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return nil, fmt.Errorf("failed to back up %s: %w", src, err)
		}
	}

	m.logger.Info("backup created", zap.String("path", dir))
	return &BackupInfo{Path: dir, Timestamp: now}, nil
}

// Reset backs up the current data, then replaces both collections with the
// shipped default data sets.
func (m *DataManager) Reset() (*BackupInfo, error) {
	backup, err := m.Backup("before_reset")
	if err != nil {
		return nil, err
	}

	books, err := readJSONFile[model.Book](m.cfg.DefaultBooksFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load default books: %w", err)
	}
	authors, err := readJSONFile[model.Author](m.cfg.DefaultAuthorsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load default authors: %w", err)
	}

	if err := m.books.ReplaceAll(books); err != nil {
		return nil, err
	}
	if err := m.authors.ReplaceAll(authors); err != nil {
		return nil, err
	}

	m.logger.Info("data reset to defaults",
		zap.Int("books", len(books)),
		zap.Int("authors", len(authors)))
	return backup, nil
}

// Export snapshots both collections into a single payload.
func (m *DataManager) Export() *ExportPayload {
	return &ExportPayload{
		ExportedAt: time.Now(),
		Books:      m.books.All(),
		Authors:    m.authors.All(),
	}
}

// Import backs up the current data, then replaces each collection present in
// the payload. A nil slice leaves that collection untouched.
func (m *DataManager) Import(payload ExportPayload) (*BackupInfo, error) {
	backup, err := m.Backup("before_import")
	if err != nil {
		return nil, err
	}

	if payload.Books != nil {
		if err := m.books.ReplaceAll(payload.Books); err != nil {
			return nil, err
		}
	}
	if payload.Authors != nil {
		if err := m.authors.ReplaceAll(payload.Authors); err != nil {
			return nil, err
		}
	}

	m.logger.Info("data imported",
		zap.Int("books", len(payload.Books)),
		zap.Int("authors", len(payload.Authors)))
	return backup, nil
}

// EnsureSeeded populates a collection from its default data file the first
// time the server runs against an empty data directory.
func (m *DataManager) EnsureSeeded() error {
	if _, err := os.Stat(m.books.Path()); os.IsNotExist(err) {
		books, err := readJSONFile[model.Book](m.cfg.DefaultBooksFile)
		if err != nil {
			m.logger.Warn("default books unavailable, starting empty", zap.Error(err))
			books = []model.Book{}
		}
		if err := m.books.ReplaceAll(books); err != nil {
			return err
		}
		m.logger.Info("books collection seeded", zap.Int("count", len(books)))
	}

	if _, err := os.Stat(m.authors.Path()); os.IsNotExist(err) {
		authors, err := readJSONFile[model.Author](m.cfg.DefaultAuthorsFile)
		if err != nil {
			m.logger.Warn("default authors unavailable, starting empty", zap.Error(err))
			authors = []model.Author{}
		}
		if err := m.authors.ReplaceAll(authors); err != nil {
			return err
		}
		m.logger.Info("authors collection seeded", zap.Int("count", len(authors)))
	}

	return nil
}

func readJSONFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
