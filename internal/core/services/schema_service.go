package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// schemaService implements the SchemaSvc interface
type schemaService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	bankRepo        portsrepo.BankReader
	scopeRepo       portsrepo.ScopeRepository
	accountRepo     portsrepo.AccountRepositoryFacade
	categoryRepo    portsrepo.CategoryRepositoryFacade
	locker          *ScopeLocker
	seed            domain.DefaultSeed
	defaultCurrency string
}

// SchemaOption is a functional option for configuring the schema service
type SchemaOption func(*schemaService)

// WithSeed replaces the stock default rows.
func WithSeed(seed domain.DefaultSeed) SchemaOption {
	return func(s *schemaService) {
		s.seed = seed
	}
}

// WithSchemaLocker shares a scope locker with the other services.
func WithSchemaLocker(locker *ScopeLocker) SchemaOption {
	return func(s *schemaService) {
		s.locker = locker
	}
}

// WithSchemaPersister mirrors the database image after resets.
func WithSchemaPersister(p portsrepo.ImagePersister) SchemaOption {
	return func(s *schemaService) {
		s.Persister = p
	}
}

// NewSchemaService creates a schema service. defaultCurrency is used for the seeded account.
func NewSchemaService(repos portsrepo.RepositoryProvider, defaultCurrency string, options ...SchemaOption) portssvc.SchemaSvc {
	svc := &schemaService{
		txManager:       repos.TxManager,
		bankRepo:        repos.BankRepo,
		scopeRepo:       repos.ScopeRepo,
		accountRepo:     repos.AccountRepo,
		categoryRepo:    repos.CategoryRepo,
		locker:          NewScopeLocker(),
		seed:            domain.StandardSeed(),
		defaultCurrency: defaultCurrency,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SchemaSvc = (*schemaService)(nil)

func (s *schemaService) DefaultSeed() domain.DefaultSeed {
	return s.seed
}

// schemaError wraps err as a schema failure. A missing bank stays a plain not-found.
func schemaError(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrSchema, msg, err)
}

func (s *schemaService) ensure(ctx context.Context, scope domain.Scope) (bool, error) {
	if err := s.ValidateScope(scope); err != nil {
		return false, err
	}
	if _, err := s.bankRepo.FindBankByID(ctx, scope.BankID); err != nil {
		return false, schemaError(err, "bank %d", scope.BankID)
	}
	created, err := s.scopeRepo.RegisterScope(ctx, scope, now())
	if err != nil {
		return false, schemaError(err, "register %s", scope)
	}
	if created {
		s.LogInfo(ctx, "Ledger scope registered", scopeAttrs(scope)...)
	}
	return created, nil
}

func (s *schemaService) EnsureTables(ctx context.Context, scope domain.Scope) error {
	_, err := s.ensure(ctx, scope)
	return err
}

func (s *schemaService) SeedDefaults(ctx context.Context, scope domain.Scope) (*domain.SeedResult, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	result := &domain.SeedResult{}
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.categoryRepo.ListCategories(ctx, scope, nil)
		if err != nil {
			return schemaError(err, "list categories of %s", scope)
		}
		keys := make(map[domain.CategoryKey]struct{}, len(existing))
		for _, c := range existing {
			keys[c.Key()] = struct{}{}
		}

		ts := now()
		for _, sc := range s.seed.Categories {
			cat := domain.Category{
				BankID:       scope.BankID,
				Year:         scope.Year,
				Name:         sc.Name,
				CategoryType: sc.Type,
				ColorCode:    sc.ColorCode,
				Icon:         sc.Icon,
				IsDefault:    true,
				AuditFields:  domain.AuditFields{CreatedAt: ts, UpdatedAt: ts},
			}
			if _, ok := keys[cat.Key()]; ok {
				continue
			}
			if _, err := s.categoryRepo.SaveCategory(ctx, cat); err != nil {
				return schemaError(err, "seed category %q", sc.Name)
			}
			keys[cat.Key()] = struct{}{}
			result.CategoriesCreated++
		}

		_, err = s.accountRepo.FindDefaultAccount(ctx, scope)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, apperrors.ErrNotFound):
			return schemaError(err, "find default account of %s", scope)
		}
		acc := domain.Account{
			BankID:         scope.BankID,
			Year:           scope.Year,
			Name:           s.seed.Account.Name,
			AccountType:    s.seed.Account.AccountType,
			Currency:       s.defaultCurrency,
			InitialBalance: decimal.Zero,
			CurrentBalance: decimal.Zero,
			ColorCode:      s.seed.Account.ColorCode,
			Icon:           s.seed.Account.Icon,
			IsDefault:      true,
			AuditFields:    domain.AuditFields{CreatedAt: ts, UpdatedAt: ts},
		}
		if _, err := s.accountRepo.SaveAccount(ctx, acc); err != nil {
			return schemaError(err, "seed default account")
		}
		result.DefaultAccountCreated = true
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed scope defaults", scopeAttrs(scope)...)
		return nil, err
	}
	if result.CategoriesCreated > 0 || result.DefaultAccountCreated {
		s.LogInfo(ctx, "Scope defaults seeded", append(scopeAttrs(scope),
			slog.Int("categories_created", result.CategoriesCreated),
			slog.Bool("default_account_created", result.DefaultAccountCreated))...)
	}
	return result, nil
}

func (s *schemaService) Recreate(ctx context.Context, scope domain.Scope) error {
	if err := s.ValidateScope(scope); err != nil {
		return err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.bankRepo.FindBankByID(ctx, scope.BankID); err != nil {
			return schemaError(err, "bank %d", scope.BankID)
		}
		if err := s.scopeRepo.PurgeScope(ctx, scope); err != nil {
			return schemaError(err, "purge %s", scope)
		}
		if _, err := s.scopeRepo.RegisterScope(ctx, scope, now()); err != nil {
			return schemaError(err, "register %s", scope)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to recreate scope", scopeAttrs(scope)...)
		return err
	}
	s.LogInfo(ctx, "Ledger scope recreated", scopeAttrs(scope)...)
	return nil
}

func (s *schemaService) Prepare(ctx context.Context, scope domain.Scope) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.ensure(ctx, scope)
		if err != nil || !created {
			return err
		}
		_, err = s.SeedDefaults(ctx, scope)
		return err
	})
}

func (s *schemaService) Setup(ctx context.Context, scope domain.Scope) (*domain.SeedResult, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	var result *domain.SeedResult
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ensure(ctx, scope); err != nil {
			return err
		}
		var err error
		result, err = s.SeedDefaults(ctx, scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Persist(ctx)
	return result, nil
}

func (s *schemaService) Reset(ctx context.Context, scope domain.Scope) (*domain.SeedResult, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	var result *domain.SeedResult
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Recreate(ctx, scope); err != nil {
			return err
		}
		var err error
		result, err = s.SeedDefaults(ctx, scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Persist(ctx)
	return result, nil
}
