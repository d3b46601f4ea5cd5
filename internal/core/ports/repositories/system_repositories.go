package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// PendingRestoreRepository stores at most one snapshot staged for the next start.
type PendingRestoreRepository interface {
	// SavePendingRestore replaces any previously staged snapshot.
	SavePendingRestore(ctx context.Context, pending domain.PendingRestore) error

	// TakePendingRestore reads and deletes the staged snapshot, or returns
	// apperrors.ErrNotFound.
	TakePendingRestore(ctx context.Context) (*domain.PendingRestore, error)

	// HasPendingRestore reports whether a snapshot is staged.
	HasPendingRestore(ctx context.Context) (bool, error)
}

// SettingsRepository is a small key/value store for application settings.
type SettingsRepository interface {
	// GetSetting returns the value, or apperrors.ErrNotFound.
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string, now time.Time) error
	DeleteSetting(ctx context.Context, key string) error
}

// ImagePersister writes a durable copy of the database image.
type ImagePersister interface {
	Persist(ctx context.Context) error
}

// DataStore controls the lifecycle of the embedded database.
type DataStore interface {
	ImagePersister

	// Reset discards every row by recreating the database file.
	Reset(ctx context.Context) error
}

// BlobStore stores opaque byte objects under string keys.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns apperrors.ErrNotFound when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
