package services_test

import (
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

func (suite *LedgerServicesTestSuite) TestRecalculateRepairsDrift() {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	suite.expense(suite.scope, acc.AccountID, "30", "2024-01-05")

	// Corrupt the stored balance behind the service's back.
	suite.Require().NoError(suite.repos.AccountRepo.AdjustBalance(suite.ctx, acc.AccountID, amount("7"), time.Now()))

	report, err := suite.svc.Balance.VerifyBalances(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Equal(1, report.DriftCount)
	for _, check := range report.Accounts {
		if check.AccountID == acc.AccountID {
			suite.True(check.Drifted)
			suite.assertAmount("77", check.Stored)
			suite.assertAmount("70", check.Expected)
			suite.assertAmount("7", check.Difference)
		}
	}

	result, err := suite.svc.Balance.RecalculateAccountBalances(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Equal(1, result.TransactionsApplied)
	suite.Equal(0, result.SkippedTransactions)
	suite.assertAmount("70", suite.balanceOf(suite.scope, acc.AccountID))
	suite.requireNoDrift(suite.scope)
}

func (suite *LedgerServicesTestSuite) TestRecalculateSkipsTransactionsOfForeignAccounts() {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	suite.expense(suite.scope, acc.AccountID, "10", "2024-01-05")

	elsewhere := suite.createAccount(domain.Scope{BankID: suite.bank.BankID, Year: 2025}, "Elsewhere", "0")
	food := suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense)
	ts := time.Now().UTC()
	orphanID, err := suite.repos.TransactionRepo.SaveTransaction(suite.ctx, domain.Transaction{
		BankID: suite.scope.BankID, Year: suite.scope.Year, TransactionType: domain.TransactionExpense,
		Amount: amount("5"), Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		AccountID: elsewhere.AccountID, CategoryID: &food,
		Tags: []string{}, Attachments: []string{},
		AuditFields: domain.AuditFields{CreatedAt: ts, UpdatedAt: ts},
	})
	suite.Require().NoError(err)

	result, err := suite.svc.Balance.RecalculateAccountBalances(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Equal(1, result.TransactionsApplied)
	suite.Equal(1, result.SkippedTransactions)
	suite.Equal([]int64{orphanID}, result.SkippedTransactionIDs)
	suite.assertAmount("90", suite.balanceOf(suite.scope, acc.AccountID))
	suite.assertAmount("0", suite.balanceOf(elsewhere.Scope(), elsewhere.AccountID))
}
