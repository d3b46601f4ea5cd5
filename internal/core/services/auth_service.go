package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/platform/config"
	"github.com/SscSPs/ledgerbook/internal/utils"
)

const (
	pinHashSetting = "pin_hash"
	// sessionSubject is the subject of every issued token; the ledger has a single local user.
	sessionSubject = "local-user"
)

// authService implements the AuthSvc for the optional local PIN.
// It requires access to application configuration for the token secret and expiry.
type authService struct {
	BaseService
	cfg          *config.Config
	settingsRepo portsrepo.SettingsRepository
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, repos portsrepo.RepositoryProvider) portssvc.AuthSvc {
	return &authService{
		BaseService:  BaseService{Persister: repos.Store},
		cfg:          cfg,
		settingsRepo: repos.SettingsRepo,
	}
}

var _ portssvc.AuthSvc = (*authService)(nil)

// pinHash returns the stored hash, or "" when no PIN is set.
func (s *authService) pinHash(ctx context.Context) (string, error) {
	hash, err := s.settingsRepo.GetSetting(ctx, pinHashSetting)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (s *authService) PINRequired(ctx context.Context) (bool, error) {
	hash, err := s.pinHash(ctx)
	if err != nil {
		return false, err
	}
	return hash != "", nil
}

// Unlock exchanges the PIN for a signed session token.
func (s *authService) Unlock(ctx context.Context, pin string) (string, time.Time, error) {
	hash, err := s.pinHash(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	if hash == "" {
		return "", time.Time{}, fmt.Errorf("%w: no PIN is set", apperrors.ErrValidation)
	}
	if !utils.CheckPINHash(pin, hash) {
		s.GetLogger(ctx).Warn("Rejected unlock attempt with wrong PIN")
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	token, expiresAt, err := utils.GenerateJWT(sessionSubject, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign session token")
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// checkCurrent fails unless currentPIN matches the stored hash. It passes when no PIN is set.
func (s *authService) checkCurrent(ctx context.Context, currentPIN string) (bool, error) {
	hash, err := s.pinHash(ctx)
	if err != nil {
		return false, err
	}
	if hash == "" {
		return false, nil
	}
	if !utils.CheckPINHash(currentPIN, hash) {
		return true, apperrors.ErrUnauthorized
	}
	return true, nil
}

func (s *authService) SetPIN(ctx context.Context, currentPIN, newPIN string) error {
	if err := utils.ValidatePIN(newPIN); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if _, err := s.checkCurrent(ctx, currentPIN); err != nil {
		return err
	}

	hash, err := utils.HashPIN(newPIN)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	if err := s.settingsRepo.PutSetting(ctx, pinHashSetting, hash, now()); err != nil {
		s.LogError(ctx, err, "Failed to store PIN")
		return err
	}
	s.Persist(ctx)
	s.LogInfo(ctx, "PIN updated")
	return nil
}

func (s *authService) ClearPIN(ctx context.Context, currentPIN string) error {
	set, err := s.checkCurrent(ctx, currentPIN)
	if err != nil {
		return err
	}
	if !set {
		return nil
	}
	if err := s.settingsRepo.DeleteSetting(ctx, pinHashSetting); err != nil {
		s.LogError(ctx, err, "Failed to clear PIN")
		return err
	}
	s.Persist(ctx)
	s.LogInfo(ctx, "PIN cleared")
	return nil
}
