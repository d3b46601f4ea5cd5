package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// balanceService implements the BalanceSvc interface
type balanceService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
	locker      *ScopeLocker
}

// NewBalanceService creates the balance engine.
func NewBalanceService(repos portsrepo.RepositoryProvider, locker *ScopeLocker) portssvc.BalanceSvc {
	return &balanceService{
		BaseService: BaseService{Persister: repos.Store},
		txManager:   repos.TxManager,
		accountRepo: repos.AccountRepo,
		txnRepo:     repos.TransactionRepo,
		locker:      locker,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) error {
	if err := s.accountRepo.AdjustBalance(ctx, accountID, delta, now()); err != nil {
		s.LogError(ctx, err, "Failed to adjust account balance",
			slog.Int64("account_id", accountID),
			slog.String("delta", delta.String()))
		return err
	}
	return nil
}

func (s *balanceService) ApplyEffects(ctx context.Context, effects []domain.BalanceEffect) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		for _, e := range effects {
			if err := s.AdjustBalance(ctx, e.AccountID, e.Delta); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *balanceService) RecalculateAccountBalances(ctx context.Context, scope domain.Scope) (*domain.RecalculationResult, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	result := &domain.RecalculationResult{Scope: scope}
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		accounts, err := s.accountRepo.ListAccounts(ctx, scope)
		if err != nil {
			return err
		}
		txns, err := s.txnRepo.ListTransactionsForReplay(ctx, scope)
		if err != nil {
			return err
		}

		balances, applied, skipped := domain.ReplayBalances(accounts, txns)
		if err := s.accountRepo.SetCurrentBalances(ctx, balances, now()); err != nil {
			return err
		}
		result.AccountsUpdated = len(balances)
		result.TransactionsApplied = applied
		result.SkippedTransactions = len(skipped)
		result.SkippedTransactionIDs = skipped
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to recalculate balances", scopeAttrs(scope)...)
		return nil, err
	}

	if result.SkippedTransactions > 0 {
		s.GetLogger(ctx).Warn("Skipped transactions referencing missing accounts",
			append(scopeAttrs(scope), slog.Any("transaction_ids", result.SkippedTransactionIDs))...)
	}
	s.LogInfo(ctx, "Balances recalculated", append(scopeAttrs(scope),
		slog.Int("accounts_updated", result.AccountsUpdated),
		slog.Int("transactions_applied", result.TransactionsApplied))...)
	s.Persist(ctx)
	return result, nil
}

func (s *balanceService) VerifyBalances(ctx context.Context, scope domain.Scope) (*domain.BalanceVerification, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	var (
		accounts []domain.Account
		txns     []domain.Transaction
	)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if accounts, err = s.accountRepo.ListAccounts(ctx, scope); err != nil {
			return err
		}
		txns, err = s.txnRepo.ListTransactionsForReplay(ctx, scope)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to read scope for balance verification", scopeAttrs(scope)...)
		return nil, err
	}

	expected, _, _ := domain.ReplayBalances(accounts, txns)
	report := &domain.BalanceVerification{Scope: scope, Accounts: make([]domain.AccountBalanceCheck, 0, len(accounts))}
	for _, acc := range accounts {
		want := expected[acc.AccountID]
		diff := acc.CurrentBalance.Sub(want)
		check := domain.AccountBalanceCheck{
			AccountID:  acc.AccountID,
			Name:       acc.Name,
			Stored:     acc.CurrentBalance,
			Expected:   want,
			Difference: diff,
			Drifted:    !diff.IsZero(),
		}
		if check.Drifted {
			report.DriftCount++
		}
		report.Accounts = append(report.Accounts, check)
	}
	return report, nil
}
