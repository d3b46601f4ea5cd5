package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerbook/internal/utils/mapping"
)

// SystemRepository stores the staged restore and application settings.
type SystemRepository struct {
	BaseRepository
}

func newSystemRepository(store *Store) *SystemRepository {
	return &SystemRepository{BaseRepository{store: store}}
}

var (
	_ portsrepo.PendingRestoreRepository = (*SystemRepository)(nil)
	_ portsrepo.SettingsRepository       = (*SystemRepository)(nil)
)

// SavePendingRestore replaces the staged snapshot.
func (r *SystemRepository) SavePendingRestore(ctx context.Context, pending domain.PendingRestore) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	var bankID, year sql.NullInt64
	if pending.Target != nil {
		bankID = sql.NullInt64{Int64: pending.Target.BankID, Valid: true}
		year = sql.NullInt64{Int64: int64(pending.Target.Year), Valid: true}
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO pending_restores (id, payload, target_bank_id, target_year, staged_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			target_bank_id = excluded.target_bank_id,
			target_year = excluded.target_year,
			staged_at = excluded.staged_at`,
		pending.Payload, bankID, year, mapping.FormatTimestamp(pending.StagedAt),
	)
	if err != nil {
		return mapError(err, "failed to stage restore")
	}
	return nil
}

// TakePendingRestore reads and deletes the staged snapshot.
func (r *SystemRepository) TakePendingRestore(ctx context.Context) (*domain.PendingRestore, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var (
		payload  []byte
		bankID   sql.NullInt64
		year     sql.NullInt64
		stagedAt string
	)
	err = q.QueryRowContext(ctx,
		`SELECT payload, target_bank_id, target_year, staged_at FROM pending_restores WHERE id = 1`,
	).Scan(&payload, &bankID, &year, &stagedAt)
	if err != nil {
		return nil, mapError(err, "failed to read staged restore")
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM pending_restores WHERE id = 1`); err != nil {
		return nil, mapError(err, "failed to clear staged restore")
	}

	staged, err := mapping.ParseTimestamp(stagedAt)
	if err != nil {
		return nil, mapError(err, "failed to parse staged restore time")
	}
	pending := &domain.PendingRestore{Payload: payload, StagedAt: staged}
	if bankID.Valid && year.Valid {
		pending.Target = &domain.Scope{BankID: bankID.Int64, Year: int(year.Int64)}
	}
	return pending, nil
}

// HasPendingRestore reports whether a snapshot is staged.
func (r *SystemRepository) HasPendingRestore(ctx context.Context) (bool, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM pending_restores`).Scan(&n); err != nil {
		return false, mapError(err, "failed to check staged restore")
	}
	return n > 0, nil
}

// GetSetting returns the value stored under key.
func (r *SystemRepository) GetSetting(ctx context.Context, key string) (string, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return "", err
	}
	var value string
	if err := q.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value); err != nil {
		return "", mapError(err, "failed to read setting %q", key)
	}
	return value, nil
}

// PutSetting inserts or replaces a setting.
func (r *SystemRepository) PutSetting(ctx context.Context, key, value string, now time.Time) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mapping.FormatTimestamp(now),
	)
	if err != nil {
		return mapError(err, "failed to write setting %q", key)
	}
	return nil
}

// DeleteSetting removes a setting. Removing a missing key is not an error.
func (r *SystemRepository) DeleteSetting(ctx context.Context, key string) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM app_settings WHERE key = ?`, key); err != nil {
		return mapError(err, "failed to delete setting %q", key)
	}
	return nil
}
