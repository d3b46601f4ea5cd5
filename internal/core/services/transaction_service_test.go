package services_test

import (
	"context"
	"errors"
	"sync"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/core/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/shopspring/decimal"
)

// failingBalance applies nothing and fails every call.
type failingBalance struct {
	portssvc.BalanceSvc
}

var errBalanceDown = errors.New("balance engine down")

func (failingBalance) ApplyEffects(context.Context, []domain.BalanceEffect) error {
	return errBalanceDown
}

func (suite *LedgerServicesTestSuite) TestBalanceFollowsTransactions() {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	suite.expense(suite.scope, acc.AccountID, "30", "2024-01-05")
	suite.income(suite.scope, acc.AccountID, "50", "2024-01-06")

	suite.assertAmount("120", suite.balanceOf(suite.scope, acc.AccountID))
	suite.requireNoDrift(suite.scope)
}

func (suite *LedgerServicesTestSuite) TestTransferMovesMoneySymmetrically() {
	a := suite.createAccount(suite.scope, "A", "100")
	b := suite.createAccount(suite.scope, "B", "10")

	txn := suite.transfer(suite.scope, a.AccountID, b.AccountID, "40", "2024-04-01")
	suite.assertAmount("60", suite.balanceOf(suite.scope, a.AccountID))
	suite.assertAmount("50", suite.balanceOf(suite.scope, b.AccountID))
	suite.Equal("A", txn.AccountName)
	suite.Equal("B", txn.ToAccountName)
	suite.Nil(txn.CategoryID)

	to := b.AccountID
	_, err := suite.svc.Transaction.UpdateTransaction(suite.ctx, suite.scope, txn.TransactionID, dto.TransactionRequest{
		TransactionType: domain.TransactionTransfer,
		Amount:          amount("20"),
		Date:            "2024-04-01",
		AccountID:       a.AccountID,
		ToAccountID:     &to,
	})
	suite.Require().NoError(err)
	suite.assertAmount("80", suite.balanceOf(suite.scope, a.AccountID))
	suite.assertAmount("30", suite.balanceOf(suite.scope, b.AccountID))

	suite.Require().NoError(suite.svc.Transaction.DeleteTransaction(suite.ctx, suite.scope, txn.TransactionID))
	suite.assertAmount("100", suite.balanceOf(suite.scope, a.AccountID))
	suite.assertAmount("10", suite.balanceOf(suite.scope, b.AccountID))
	suite.requireNoDrift(suite.scope)
}

func (suite *LedgerServicesTestSuite) TestUpdateTransactionMovesBetweenAccounts() {
	a := suite.createAccount(suite.scope, "A", "100")
	b := suite.createAccount(suite.scope, "B", "100")
	txn := suite.expense(suite.scope, a.AccountID, "25", "2024-05-01")

	salary := suite.categoryID(suite.scope, "Salary", domain.CategoryIncome)
	updated, err := suite.svc.Transaction.UpdateTransaction(suite.ctx, suite.scope, txn.TransactionID, dto.TransactionRequest{
		TransactionType: domain.TransactionIncome,
		Amount:          amount("40"),
		Date:            "2024-05-02",
		AccountID:       b.AccountID,
		CategoryID:      &salary,
	})
	suite.Require().NoError(err)
	suite.Equal(domain.TransactionIncome, updated.TransactionType)
	suite.Equal("Salary", updated.CategoryName)

	suite.assertAmount("100", suite.balanceOf(suite.scope, a.AccountID))
	suite.assertAmount("140", suite.balanceOf(suite.scope, b.AccountID))
	suite.requireNoDrift(suite.scope)
}

func (suite *LedgerServicesTestSuite) TestCreateTransaction_Validation() {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	food := suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense)
	salary := suite.categoryID(suite.scope, "Salary", domain.CategoryIncome)
	self := acc.AccountID
	missing := int64(9999)

	cases := map[string]dto.TransactionRequest{
		"zero amount":      {TransactionType: domain.TransactionExpense, Amount: decimal.Zero, Date: "2024-01-01", AccountID: acc.AccountID, CategoryID: &food},
		"negative amount":  {TransactionType: domain.TransactionExpense, Amount: amount("-5"), Date: "2024-01-01", AccountID: acc.AccountID, CategoryID: &food},
		"bad date":         {TransactionType: domain.TransactionExpense, Amount: amount("5"), Date: "01/02/2024", AccountID: acc.AccountID, CategoryID: &food},
		"missing category": {TransactionType: domain.TransactionExpense, Amount: amount("5"), Date: "2024-01-01", AccountID: acc.AccountID},
		"wrong category":   {TransactionType: domain.TransactionExpense, Amount: amount("5"), Date: "2024-01-01", AccountID: acc.AccountID, CategoryID: &salary},
		"unknown account":  {TransactionType: domain.TransactionExpense, Amount: amount("5"), Date: "2024-01-01", AccountID: missing, CategoryID: &food},
		"self transfer":    {TransactionType: domain.TransactionTransfer, Amount: amount("5"), Date: "2024-01-01", AccountID: acc.AccountID, ToAccountID: &self},
		"transfer no dest": {TransactionType: domain.TransactionTransfer, Amount: amount("5"), Date: "2024-01-01", AccountID: acc.AccountID},
	}
	for name, req := range cases {
		_, err := suite.svc.Transaction.CreateTransaction(suite.ctx, suite.scope, req)
		suite.ErrorIs(err, apperrors.ErrValidation, name)
	}

	suite.assertAmount("100", suite.balanceOf(suite.scope, acc.AccountID))
	txns, _, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{})
	suite.Require().NoError(err)
	suite.Empty(txns)
}

func (suite *LedgerServicesTestSuite) TestCreateTransactionIsAtomic() {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	food := suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense)

	locker := services.NewScopeLocker()
	broken := services.NewTransactionService(suite.repos, suite.svc.Schema, failingBalance{}, locker)
	_, err := broken.CreateTransaction(suite.ctx, suite.scope, dto.TransactionRequest{
		TransactionType: domain.TransactionExpense,
		Amount:          amount("30"),
		Date:            "2024-01-01",
		AccountID:       acc.AccountID,
		CategoryID:      &food,
	})
	suite.ErrorIs(err, errBalanceDown)

	txns, _, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{})
	suite.Require().NoError(err)
	suite.Empty(txns, "the row must roll back with its balance effects")
	suite.assertAmount("100", suite.balanceOf(suite.scope, acc.AccountID))
}

func (suite *LedgerServicesTestSuite) TestDeleteTransactionNotFound() {
	err := suite.svc.Transaction.DeleteTransaction(suite.ctx, suite.scope, 4242)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServicesTestSuite) TestListTransactionsNewestFirstWithPaging() {
	acc := suite.createAccount(suite.scope, "Checking", "1000")
	first := suite.expense(suite.scope, acc.AccountID, "1", "2024-01-01")
	second := suite.expense(suite.scope, acc.AccountID, "2", "2024-01-03")
	third := suite.expense(suite.scope, acc.AccountID, "3", "2024-01-03")
	fourth := suite.income(suite.scope, acc.AccountID, "4", "2024-01-02")

	page, next, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{Limit: 3})
	suite.Require().NoError(err)
	suite.Require().NotNil(next)
	suite.Equal([]int64{third.TransactionID, second.TransactionID, fourth.TransactionID}, transactionIDs(page))

	page, next, err = suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{Limit: 3, NextToken: next})
	suite.Require().NoError(err)
	suite.Nil(next)
	suite.Equal([]int64{first.TransactionID}, transactionIDs(page))

	income := domain.TransactionIncome
	page, _, err = suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{Type: &income})
	suite.Require().NoError(err)
	suite.Equal([]int64{fourth.TransactionID}, transactionIDs(page))
}

func (suite *LedgerServicesTestSuite) TestListTransactions_Validation() {
	_, _, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{Limit: -1})
	suite.ErrorIs(err, apperrors.ErrValidation)

	bad := "not-a-token"
	_, _, err = suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{NextToken: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestConcurrentWritesKeepBalancesConsistent() {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	food := suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.svc.Transaction.CreateTransaction(context.Background(), suite.scope, dto.TransactionRequest{
				TransactionType: domain.TransactionExpense,
				Amount:          amount("1"),
				Date:            "2024-06-01",
				AccountID:       acc.AccountID,
				CategoryID:      &food,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		suite.NoError(err)
	}

	suite.assertAmount("80", suite.balanceOf(suite.scope, acc.AccountID))
	suite.requireNoDrift(suite.scope)
}

func transactionIDs(txns []domain.Transaction) []int64 {
	ids := make([]int64, len(txns))
	for i, t := range txns {
		ids[i] = t.TransactionID
	}
	return ids
}
