package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerbook/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Persister portsrepo.ImagePersister
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Persist mirrors the database image after a committed mutation. The local
// file stays authoritative, so failures are only logged.
func (s *BaseService) Persist(ctx context.Context) {
	if s.Persister == nil {
		return
	}
	if err := s.Persister.Persist(ctx); err != nil {
		s.LogError(ctx, err, "Failed to persist database image")
	}
}

// ValidateScope rejects impossible bank/year pairs.
func (s *BaseService) ValidateScope(scope domain.Scope) error {
	if err := scope.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return nil
}

func scopeAttrs(scope domain.Scope) []any {
	return []any{slog.Int64("bank_id", scope.BankID), slog.Int("year", scope.Year)}
}

// now is the clock used for audit timestamps.
func now() time.Time {
	return time.Now().UTC()
}
