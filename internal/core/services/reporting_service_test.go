package services_test

import (
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

func (suite *LedgerServicesTestSuite) TestGetSummary() {
	a := suite.seedLedger()
	b := suite.createAccount(suite.scope, "Savings", "0")
	suite.expense(suite.scope, a.AccountID, "5", "2024-02-10")
	suite.transfer(suite.scope, a.AccountID, b.AccountID, "15", "2024-02-11")

	summary, err := suite.svc.Reporting.GetSummary(suite.ctx, suite.scope, nil, nil)
	suite.Require().NoError(err)
	suite.Equal("USD", summary.Currency)
	suite.Equal(4, summary.TransactionCount)
	suite.assertAmount("50", summary.TotalIncome)
	suite.assertAmount("35", summary.TotalExpense)
	suite.assertAmount("15", summary.Net)
	suite.assertAmount("15", summary.TransferVolume)
	suite.Equal("$15.00", summary.Display["net"])

	suite.Require().Len(summary.ByCategory, 2)
	suite.Equal("Food & Dining", summary.ByCategory[0].CategoryName)
	suite.Equal(2, summary.ByCategory[0].Count)
	suite.assertAmount("35", summary.ByCategory[0].Total)
	suite.Equal(domain.CategoryIncome, summary.ByCategory[1].CategoryType)

	suite.Require().Len(summary.ByMonth, 2)
	suite.Equal("2024-01", summary.ByMonth[0].Month)
	suite.assertAmount("20", summary.ByMonth[0].Net)
	suite.Equal("2024-02", summary.ByMonth[1].Month)
	suite.assertAmount("-5", summary.ByMonth[1].Net)

	suite.Len(summary.Accounts, 3)
}

func (suite *LedgerServicesTestSuite) TestGetSummaryRange() {
	suite.seedLedger()
	from := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	summary, err := suite.svc.Reporting.GetSummary(suite.ctx, suite.scope, &from, nil)
	suite.Require().NoError(err)
	suite.Equal(1, summary.TransactionCount)
	suite.assertAmount("0", summary.TotalExpense)

	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = suite.svc.Reporting.GetSummary(suite.ctx, suite.scope, &from, &to)
	suite.ErrorIs(err, apperrors.ErrValidation)
}
