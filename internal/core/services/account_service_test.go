package services_test

import (
	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

func (suite *LedgerServicesTestSuite) TestCreateAccount_Success() {
	acc, err := suite.svc.Account.CreateAccount(suite.ctx, suite.scope, dto.CreateAccountRequest{
		Name:           "  Test Savings ",
		AccountType:    domain.AccountSavings,
		Currency:       "eur",
		InitialBalance: amount("250.50"),
	})
	suite.Require().NoError(err)
	suite.NotZero(acc.AccountID)
	suite.Equal("Test Savings", acc.Name)
	suite.Equal("EUR", acc.Currency)
	suite.False(acc.IsDefault)
	suite.assertAmount("250.50", acc.CurrentBalance)

	stored, err := suite.svc.Account.GetAccountByID(suite.ctx, suite.scope, acc.AccountID)
	suite.Require().NoError(err)
	suite.Equal(acc.Name, stored.Name)
	suite.assertAmount("250.50", stored.InitialBalance)
}

func (suite *LedgerServicesTestSuite) TestCreateAccount_Validation() {
	cases := map[string]dto.CreateAccountRequest{
		"empty name":       {Name: " ", AccountType: domain.AccountCash},
		"unknown type":     {Name: "X", AccountType: "wallet"},
		"unknown currency": {Name: "X", AccountType: domain.AccountCash, Currency: "ZZZ"},
	}
	for name, req := range cases {
		_, err := suite.svc.Account.CreateAccount(suite.ctx, suite.scope, req)
		suite.ErrorIs(err, apperrors.ErrValidation, name)
	}
}

func (suite *LedgerServicesTestSuite) TestUpdateAccount_InitialBalanceShiftsCurrent() {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	suite.expense(suite.scope, acc.AccountID, "30", "2024-02-01")

	newInitial := amount("150")
	newName := "Main Checking"
	updated, err := suite.svc.Account.UpdateAccount(suite.ctx, suite.scope, acc.AccountID, dto.UpdateAccountRequest{
		Name:           &newName,
		InitialBalance: &newInitial,
	})
	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.assertAmount("150", updated.InitialBalance)
	suite.assertAmount("120", updated.CurrentBalance)
	suite.requireNoDrift(suite.scope)
}

func (suite *LedgerServicesTestSuite) TestUpdateAccount_NotFound() {
	name := "Ghost"
	_, err := suite.svc.Account.UpdateAccount(suite.ctx, suite.scope, 9999, dto.UpdateAccountRequest{Name: &name})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServicesTestSuite) TestDeleteAccount_Guards() {
	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	defaultID := accounts[0].AccountID

	err = suite.svc.Account.DeleteAccount(suite.ctx, suite.scope, defaultID)
	suite.ErrorIs(err, apperrors.ErrConstraint)

	used := suite.createAccount(suite.scope, "Used", "0")
	suite.income(suite.scope, used.AccountID, "10", "2024-01-01")
	err = suite.svc.Account.DeleteAccount(suite.ctx, suite.scope, used.AccountID)
	suite.ErrorIs(err, apperrors.ErrConstraint)

	source := suite.createAccount(suite.scope, "Source", "50")
	destination := suite.createAccount(suite.scope, "Destination", "0")
	suite.transfer(suite.scope, source.AccountID, destination.AccountID, "20", "2024-01-02")
	err = suite.svc.Account.DeleteAccount(suite.ctx, suite.scope, destination.AccountID)
	suite.ErrorIs(err, apperrors.ErrConstraint, "an account used only as a transfer destination is still referenced")
	suite.assertAmount("20", suite.balanceOf(suite.scope, destination.AccountID))

	unused := suite.createAccount(suite.scope, "Unused", "0")
	suite.Require().NoError(suite.svc.Account.DeleteAccount(suite.ctx, suite.scope, unused.AccountID))
	_, err = suite.svc.Account.GetAccountByID(suite.ctx, suite.scope, unused.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServicesTestSuite) TestAccountsAreScoped() {
	acc := suite.createAccount(suite.scope, "Checking", "0")
	other := domain.Scope{BankID: suite.bank.BankID, Year: 2025}
	_, err := suite.svc.Account.GetAccountByID(suite.ctx, other, acc.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
