package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// openDB opens sqlite with the pragmas every connection needs.
func openDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetConnMaxLifetime(0)
	return db, nil
}

// Store owns the embedded database file and its handle.
// Repositories ask the store for the live handle on every call, so a Reset
// is picked up without rebuilding them.
type Store struct {
	mu       sync.RWMutex
	path     string
	db       *sql.DB
	images   portsrepo.BlobStore
	imageKey string
	logger   *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithImageStore mirrors the database image to blobs under key.
func WithImageStore(blobs portsrepo.BlobStore, key string) StoreOption {
	return func(s *Store) {
		s.images = blobs
		s.imageKey = key
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a closed store for the database file at path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:     path,
		imageKey: "ledgerbook.db",
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portsrepo.DataStore = (*Store)(nil)

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Open loads the durable image when the local file is missing, applies
// migrations and opens the handle. Calling Open on an open store is a no-op.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	return s.openLocked(ctx, true)
}

func (s *Store) openLocked(ctx context.Context, loadImage bool) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create data directory: %w", apperrors.ErrStorage, err)
		}
	}

	if loadImage && s.images != nil {
		if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			if err := s.loadImageLocked(ctx); err != nil {
				return err
			}
		}
	}

	if err := RunMigrations(s.path); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}

	db, err := openDB(s.path)
	if err != nil {
		return fmt.Errorf("%w: open database: %w", apperrors.ErrStorage, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: ping database: %w", apperrors.ErrStorage, err)
	}
	s.db = db
	s.logger.Info("Database opened", slog.String("path", s.path))
	return nil
}

func (s *Store) loadImageLocked(ctx context.Context) error {
	data, err := s.images.Get(ctx, s.imageKey)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Info("No database image found, starting empty", slog.String("key", s.imageKey))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load database image: %w", err)
	}

	tmp := s.path + ".restore-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: write database image: %w", apperrors.ErrStorage, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: install database image: %w", apperrors.ErrStorage, err)
	}
	s.logger.Info("Database image loaded", slog.String("key", s.imageKey), slog.Int("bytes", len(data)))
	return nil
}

// DB returns the live handle, or ErrStorage when the store is closed.
func (s *Store) DB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, fmt.Errorf("%w: database is not open", apperrors.ErrStorage)
	}
	return s.db, nil
}

// Close closes the handle. Closing a closed store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Store) closeLocked() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("%w: close database: %w", apperrors.ErrStorage, err)
	}
	return nil
}

// Reset closes the handle, deletes the database files and reopens an empty,
// migrated database.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeLocked(); err != nil {
		return err
	}
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: remove %s: %w", apperrors.ErrStorage, s.path+suffix, err)
		}
	}
	s.logger.Warn("Database files removed", slog.String("path", s.path))
	return s.openLocked(ctx, false)
}

// Persist writes a consistent copy of the database to the image store.
// Without an image store it does nothing. Inside a transaction it also does
// nothing; the caller persists once the outermost transaction has committed.
func (s *Store) Persist(ctx context.Context) error {
	if s.images == nil || inTx(ctx) {
		return nil
	}

	db, err := s.DB()
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(s.path), ".image-"+uuid.NewString()+".db")
	defer os.Remove(tmp)

	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", tmp); err != nil {
		return fmt.Errorf("%w: snapshot database: %w", apperrors.ErrStorage, err)
	}
	data, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("%w: read database snapshot: %w", apperrors.ErrStorage, err)
	}
	if err := s.images.Put(ctx, s.imageKey, data); err != nil {
		return fmt.Errorf("persist database image: %w", err)
	}
	s.logger.Debug("Database image persisted", slog.String("key", s.imageKey), slog.Int("bytes", len(data)))
	return nil
}
