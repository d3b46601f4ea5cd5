package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	schema      portssvc.SchemaSvc
	currency    portssvc.CurrencySvc
	locker      *ScopeLocker
}

// NewAccountService creates an account service.
func NewAccountService(repos portsrepo.RepositoryProvider, schema portssvc.SchemaSvc, currency portssvc.CurrencySvc, locker *ScopeLocker) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: BaseService{Persister: repos.Store},
		txManager:   repos.TxManager,
		accountRepo: repos.AccountRepo,
		schema:      schema,
		currency:    currency,
		locker:      locker,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, scope domain.Scope, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	currency, err := s.currency.ValidateCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	ts := now()
	account := domain.Account{
		BankID:         scope.BankID,
		Year:           scope.Year,
		Name:           name,
		AccountType:    req.AccountType,
		Currency:       currency,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		ColorCode:      req.ColorCode,
		Icon:           req.Icon,
		Notes:          req.Notes,
		AuditFields:    domain.AuditFields{CreatedAt: ts, UpdatedAt: ts},
	}

	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.schema.Prepare(ctx, scope); err != nil {
			return err
		}
		id, err := s.accountRepo.SaveAccount(ctx, account)
		if err != nil {
			return err
		}
		account.AccountID = id
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", append(scopeAttrs(scope), slog.String("name", name))...)
		return nil, err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Account created", append(scopeAttrs(scope), slog.Int64("account_id", account.AccountID))...)
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, scope domain.Scope, accountID int64) (*domain.Account, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, scope, accountID)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.Int64("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, scope domain.Scope) ([]domain.Account, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, scope)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", scopeAttrs(scope)...)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount never replays transactions. A new initial balance moves the
// current balance by the same delta.
func (s *accountService) UpdateAccount(ctx context.Context, scope domain.Scope, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	var account *domain.Account
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accountRepo.FindAccountByID(ctx, scope, accountID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
			}
			account.Name = name
		}
		if req.AccountType != nil {
			if !req.AccountType.IsValid() {
				return fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
			}
			account.AccountType = *req.AccountType
		}
		if req.Currency != nil {
			currency, err := s.currency.ValidateCurrency(*req.Currency)
			if err != nil {
				return err
			}
			account.Currency = currency
		}
		if req.InitialBalance != nil {
			delta := req.InitialBalance.Sub(account.InitialBalance)
			account.InitialBalance = *req.InitialBalance
			account.CurrentBalance = account.CurrentBalance.Add(delta)
		}
		if req.ColorCode != nil {
			account.ColorCode = *req.ColorCode
		}
		if req.Icon != nil {
			account.Icon = *req.Icon
		}
		if req.Notes != nil {
			account.Notes = *req.Notes
		}
		account.UpdatedAt = now()
		return s.accountRepo.UpdateAccount(ctx, *account)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to update account", slog.Int64("account_id", accountID))
		}
		return nil, err
	}
	s.Persist(ctx)
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, scope domain.Scope, accountID int64) error {
	if err := s.ValidateScope(scope); err != nil {
		return err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(ctx, scope, accountID)
		if err != nil {
			return err
		}
		if account.IsDefault {
			return fmt.Errorf("%w: the default account cannot be deleted", apperrors.ErrConstraint)
		}
		refs, err := s.accountRepo.CountAccountReferences(ctx, accountID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: account %d is used by %d transactions", apperrors.ErrConstraint, accountID, refs)
		}
		return s.accountRepo.DeleteAccount(ctx, scope, accountID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConstraint) {
			s.LogError(ctx, err, "Failed to delete account", slog.Int64("account_id", accountID))
		}
		return err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Account deleted", slog.Int64("account_id", accountID))
	return nil
}
