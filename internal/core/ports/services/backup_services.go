package services

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// BackupSvc exports scopes to snapshots and rebuilds scopes from them.
type BackupSvc interface {
	// CreateBackup reads the scope and encodes it in the requested format.
	CreateBackup(ctx context.Context, scope domain.Scope, opts domain.BackupOptions) (*domain.BackupFile, error)

	// RestoreBackup decodes data and rebuilds the target scope in one database
	// transaction. Nothing is written when the snapshot is invalid.
	RestoreBackup(ctx context.Context, data []byte, opts domain.RestoreOptions) (*domain.RestoreResult, error)

	// StageRestore validates data and keeps it for ApplyPendingRestore.
	StageRestore(ctx context.Context, data []byte, opts domain.RestoreOptions) (*domain.PendingRestore, error)

	// ApplyPendingRestore consumes the staged snapshot, if any, and restores it.
	// It returns nil, nil when nothing is staged.
	ApplyPendingRestore(ctx context.Context) (*domain.RestoreResult, error)

	// HasPendingRestore reports whether a snapshot is staged.
	HasPendingRestore(ctx context.Context) (bool, error)
}
