package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	txnRepo      portsrepo.TransactionRepositoryFacade
	accountRepo  portsrepo.AccountReader
	categoryRepo portsrepo.CategoryReader
	schema       portssvc.SchemaSvc
	balance      portssvc.BalanceSvc
	locker       *ScopeLocker
}

// NewTransactionService creates a transaction service writing balance effects through balance.
func NewTransactionService(repos portsrepo.RepositoryProvider, schema portssvc.SchemaSvc, balance portssvc.BalanceSvc, locker *ScopeLocker) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService:  BaseService{Persister: repos.Store},
		txManager:    repos.TxManager,
		txnRepo:      repos.TransactionRepo,
		accountRepo:  repos.AccountRepo,
		categoryRepo: repos.CategoryRepo,
		schema:       schema,
		balance:      balance,
		locker:       locker,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func buildTransaction(scope domain.Scope, req dto.TransactionRequest) (domain.Transaction, error) {
	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}
	txn := domain.Transaction{
		BankID:          scope.BankID,
		Year:            scope.Year,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Date:            date,
		AccountID:       req.AccountID,
		ToAccountID:     req.ToAccountID,
		CategoryID:      req.CategoryID,
		Description:     strings.TrimSpace(req.Description),
		PaymentMethod:   req.PaymentMethod,
		Location:        req.Location,
		Notes:           req.Notes,
		Tags:            req.Tags,
		Attachments:     req.Attachments,
	}
	if txn.Tags == nil {
		txn.Tags = []string{}
	}
	if txn.Attachments == nil {
		txn.Attachments = []string{}
	}
	if err := txn.Validate(); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return txn, nil
}

// checkReferences verifies that accounts and category exist in the scope and
// that the category matches the transaction type.
func (s *transactionService) checkReferences(ctx context.Context, scope domain.Scope, txn domain.Transaction) error {
	for _, id := range txn.AccountIDs() {
		if _, err := s.accountRepo.FindAccountByID(ctx, scope, id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: account %d not found in %s", apperrors.ErrValidation, id, scope)
			}
			return err
		}
	}
	want, ok := txn.TransactionType.CategoryType()
	if !ok {
		return nil
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, scope, *txn.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %d not found in %s", apperrors.ErrValidation, *txn.CategoryID, scope)
		}
		return err
	}
	if category.CategoryType != want {
		return fmt.Errorf("%w: %s transactions need a %s category, %q is %s",
			apperrors.ErrValidation, txn.TransactionType, want, category.Name, category.CategoryType)
	}
	return nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, scope domain.Scope, req dto.TransactionRequest) (*domain.Transaction, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	txn, err := buildTransaction(scope, req)
	if err != nil {
		return nil, err
	}
	ts := now()
	txn.AuditFields = domain.AuditFields{CreatedAt: ts, UpdatedAt: ts}

	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	var created *domain.Transaction
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.schema.Prepare(ctx, scope); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, scope, txn); err != nil {
			return err
		}
		id, err := s.txnRepo.SaveTransaction(ctx, txn)
		if err != nil {
			return err
		}
		txn.TransactionID = id
		if err := s.balance.ApplyEffects(ctx, txn.Effects()); err != nil {
			return err
		}
		created, err = s.txnRepo.FindTransactionByID(ctx, scope, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to create transaction", scopeAttrs(scope)...)
		}
		return nil, err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Transaction created", append(scopeAttrs(scope),
		slog.Int64("transaction_id", created.TransactionID),
		slog.String("type", string(created.TransactionType)))...)
	return created, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, scope domain.Scope, transactionID int64) (*domain.Transaction, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, scope, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.Int64("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, scope domain.Scope, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, nil, err
	}
	if filter.Limit < 0 {
		return nil, nil, fmt.Errorf("%w: limit cannot be negative", apperrors.ErrValidation)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, nil, fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)
	}
	txns, next, err := s.txnRepo.ListTransactions(ctx, scope, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", scopeAttrs(scope)...)
		}
		return nil, nil, err
	}
	s.LogDebug(ctx, "Transactions listed", append(scopeAttrs(scope), slog.Int("count", len(txns)))...)
	return txns, next, nil
}

// UpdateTransaction always reverses the stored effects before applying the new ones.
func (s *transactionService) UpdateTransaction(ctx context.Context, scope domain.Scope, transactionID int64, req dto.TransactionRequest) (*domain.Transaction, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	txn, err := buildTransaction(scope, req)
	if err != nil {
		return nil, err
	}
	txn.TransactionID = transactionID

	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	var updated *domain.Transaction
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		old, err := s.txnRepo.FindTransactionByID(ctx, scope, transactionID)
		if err != nil {
			return err
		}
		if err := s.checkReferences(ctx, scope, txn); err != nil {
			return err
		}
		txn.CreatedAt = old.CreatedAt
		txn.UpdatedAt = now()
		if err := s.txnRepo.UpdateTransaction(ctx, txn); err != nil {
			return err
		}
		if err := s.balance.ApplyEffects(ctx, old.ReverseEffects()); err != nil {
			return err
		}
		if err := s.balance.ApplyEffects(ctx, txn.Effects()); err != nil {
			return err
		}
		updated, err = s.txnRepo.FindTransactionByID(ctx, scope, transactionID)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to update transaction", slog.Int64("transaction_id", transactionID))
		}
		return nil, err
	}
	s.Persist(ctx)
	return updated, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, scope domain.Scope, transactionID int64) error {
	if err := s.ValidateScope(scope); err != nil {
		return err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		old, err := s.txnRepo.FindTransactionByID(ctx, scope, transactionID)
		if err != nil {
			return err
		}
		if err := s.txnRepo.DeleteTransaction(ctx, scope, transactionID); err != nil {
			return err
		}
		return s.balance.ApplyEffects(ctx, old.ReverseEffects())
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.Int64("transaction_id", transactionID))
		}
		return err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Transaction deleted", slog.Int64("transaction_id", transactionID))
	return nil
}
