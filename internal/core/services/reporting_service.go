package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
	currency    portssvc.CurrencySvc
}

// NewReportingService creates a new reporting service
func NewReportingService(repos portsrepo.RepositoryProvider, currency portssvc.CurrencySvc) portssvc.ReportingService {
	return &reportingService{
		txManager:   repos.TxManager,
		accountRepo: repos.AccountRepo,
		txnRepo:     repos.TransactionRepo,
		currency:    currency,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GetSummary aggregates the scope's transactions into totals per category and month.
func (s *reportingService) GetSummary(ctx context.Context, scope domain.Scope, from, to *time.Time) (*domain.LedgerSummary, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)
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
		txns, _, err = s.txnRepo.ListTransactions(ctx, scope, domain.TransactionFilter{From: from, To: to})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for summary", scopeAttrs(scope)...)
		return nil, fmt.Errorf("failed to load ledger for summary: %w", err)
	}

	summary := buildSummary(scope, accounts, txns, s.summaryCurrency(accounts))
	summary.From, summary.To = from, to
	s.decorate(summary)

	s.LogInfo(ctx, "Ledger summary generated", append(scopeAttrs(scope),
		slog.Int("transaction_count", summary.TransactionCount))...)
	return summary, nil
}

// summaryCurrency is the currency of the default account, or the configured default.
func (s *reportingService) summaryCurrency(accounts []domain.Account) string {
	for _, a := range accounts {
		if a.IsDefault && a.Currency != "" {
			return a.Currency
		}
	}
	return s.currency.DefaultCurrency()
}

func buildSummary(scope domain.Scope, accounts []domain.Account, txns []domain.Transaction, currency string) *domain.LedgerSummary {
	summary := &domain.LedgerSummary{
		Scope:            scope,
		Currency:         currency,
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		TransferVolume:   decimal.Zero,
		TransactionCount: len(txns),
		ByCategory:       make([]domain.CategoryTotal, 0),
		ByMonth:          make([]domain.MonthlyTotal, 0),
		Accounts:         make([]domain.AccountBalanceLine, 0, len(accounts)),
	}

	categories := make(map[int64]*domain.CategoryTotal)
	months := make(map[string]*domain.MonthlyTotal)
	for _, t := range txns {
		amount := t.Amount.Abs()
		month := t.Date.Format("2006-01")
		m, ok := months[month]
		if !ok {
			m = &domain.MonthlyTotal{Month: month, Income: decimal.Zero, Expense: decimal.Zero}
			months[month] = m
		}

		switch t.TransactionType {
		case domain.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(amount)
			m.Income = m.Income.Add(amount)
		case domain.TransactionExpense:
			summary.TotalExpense = summary.TotalExpense.Add(amount)
			m.Expense = m.Expense.Add(amount)
		case domain.TransactionTransfer:
			summary.TransferVolume = summary.TransferVolume.Add(amount)
			continue
		}

		if t.CategoryID == nil {
			continue
		}
		c, ok := categories[*t.CategoryID]
		if !ok {
			categoryType, _ := t.TransactionType.CategoryType()
			c = &domain.CategoryTotal{
				CategoryID:   *t.CategoryID,
				CategoryName: t.CategoryName,
				CategoryType: categoryType,
				Total:        decimal.Zero,
			}
			categories[*t.CategoryID] = c
		}
		c.Total = c.Total.Add(amount)
		c.Count++
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)

	for _, c := range categories {
		summary.ByCategory = append(summary.ByCategory, *c)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if a.CategoryType != b.CategoryType {
			return a.CategoryType < b.CategoryType
		}
		if cmp := a.Total.Cmp(b.Total); cmp != 0 {
			return cmp > 0
		}
		return a.CategoryName < b.CategoryName
	})

	for _, m := range months {
		m.Net = m.Income.Sub(m.Expense)
		summary.ByMonth = append(summary.ByMonth, *m)
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool { return summary.ByMonth[i].Month < summary.ByMonth[j].Month })

	for _, a := range accounts {
		summary.Accounts = append(summary.Accounts, domain.AccountBalanceLine{
			AccountID: a.AccountID,
			Name:      a.Name,
			Currency:  a.Currency,
			Balance:   a.CurrentBalance,
		})
	}
	return summary
}

// decorate fills the display strings of every amount in the summary.
func (s *reportingService) decorate(summary *domain.LedgerSummary) {
	code := summary.Currency
	summary.Display = map[string]string{
		"totalIncome":    s.currency.Format(summary.TotalIncome, code),
		"totalExpense":   s.currency.Format(summary.TotalExpense, code),
		"net":            s.currency.Format(summary.Net, code),
		"transferVolume": s.currency.Format(summary.TransferVolume, code),
	}
	for i := range summary.ByCategory {
		summary.ByCategory[i].Display = s.currency.Format(summary.ByCategory[i].Total, code)
	}
	for i := range summary.Accounts {
		line := &summary.Accounts[i]
		line.Display = s.currency.Format(line.Balance, line.Currency)
	}
}
