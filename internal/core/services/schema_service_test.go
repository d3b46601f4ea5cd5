package services_test

import (
	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

func (suite *LedgerServicesTestSuite) TestSetupSeedsDefaults() {
	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Require().Len(accounts, 1)
	suite.True(accounts[0].IsDefault)
	suite.Equal("Petty Cash", accounts[0].Name)
	suite.Equal("USD", accounts[0].Currency)
	suite.assertAmount("0", accounts[0].CurrentBalance)

	categories, err := suite.svc.Category.ListCategories(suite.ctx, suite.scope, nil)
	suite.Require().NoError(err)
	suite.Len(categories, len(domain.StandardSeed().Categories))
	for _, c := range categories {
		suite.True(c.IsDefault, c.Name)
	}
}

func (suite *LedgerServicesTestSuite) TestSeedDefaultsIsIdempotent() {
	result, err := suite.svc.Schema.Setup(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Equal(0, result.CategoriesCreated)
	suite.False(result.DefaultAccountCreated)

	result, err = suite.svc.Schema.SeedDefaults(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Equal(domain.SeedResult{}, *result)

	categories, err := suite.svc.Category.ListCategories(suite.ctx, suite.scope, nil)
	suite.Require().NoError(err)
	suite.Len(categories, len(domain.StandardSeed().Categories))
}

func (suite *LedgerServicesTestSuite) TestSeedDefaultsFillsOnlyMissingRows() {
	food := suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense)
	categories, err := suite.svc.Category.ListCategories(suite.ctx, suite.scope, nil)
	suite.Require().NoError(err)
	for _, c := range categories {
		if c.CategoryID != food {
			suite.Require().NoError(suite.repos.CategoryRepo.DeleteCategory(suite.ctx, suite.scope, c.CategoryID))
		}
	}

	result, err := suite.svc.Schema.SeedDefaults(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Equal(len(domain.StandardSeed().Categories)-1, result.CategoriesCreated)
	suite.False(result.DefaultAccountCreated)
}

func (suite *LedgerServicesTestSuite) TestPrepareRegistersScopeOnFirstWrite() {
	next := domain.Scope{BankID: suite.bank.BankID, Year: 2025}
	acc := suite.createAccount(next, "Savings", "10")
	suite.Equal(next, acc.Scope())

	years, err := suite.svc.Bank.ListYears(suite.ctx, suite.bank.BankID)
	suite.Require().NoError(err)
	suite.Equal([]int{2025, 2024}, years)

	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, next)
	suite.Require().NoError(err)
	suite.Len(accounts, 2, "default account is seeded alongside the new one")
}

func (suite *LedgerServicesTestSuite) TestSetupUnknownBank() {
	_, err := suite.svc.Schema.Setup(suite.ctx, domain.Scope{BankID: 999, Year: 2024})
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.NotErrorIs(err, apperrors.ErrSchema)
}

func (suite *LedgerServicesTestSuite) TestSetupRejectsInvalidScope() {
	_, err := suite.svc.Schema.Setup(suite.ctx, domain.Scope{BankID: suite.bank.BankID, Year: 12})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestResetDropsScopeData() {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	suite.expense(suite.scope, acc.AccountID, "30", "2024-01-10")

	result, err := suite.svc.Schema.Reset(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.True(result.DefaultAccountCreated)
	suite.Equal(len(domain.StandardSeed().Categories), result.CategoriesCreated)

	_, err = suite.svc.Account.GetAccountByID(suite.ctx, suite.scope, acc.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	txns, _, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{})
	suite.Require().NoError(err)
	suite.Empty(txns)
}

func (suite *LedgerServicesTestSuite) TestDeleteBankRemovesEveryYear() {
	other := domain.Scope{BankID: suite.bank.BankID, Year: 2023}
	suite.createAccount(other, "Old", "5")

	suite.Require().NoError(suite.svc.Bank.DeleteBank(suite.ctx, suite.bank.BankID))

	_, err := suite.svc.Bank.GetBankByID(suite.ctx, suite.bank.BankID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, other)
	suite.Require().NoError(err)
	suite.Empty(accounts)
}
