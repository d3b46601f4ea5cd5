package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionHandlerTestSuite struct {
	handlerSuite
}

func sampleTransaction(id int64) domain.Transaction {
	category := int64(3)
	return domain.Transaction{
		TransactionID:   id,
		BankID:          testScope.BankID,
		Year:            testScope.Year,
		TransactionType: domain.TransactionExpense,
		Amount:          decimal.NewFromInt(30),
		Date:            time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		AccountID:       1,
		AccountName:     "Cash",
		CategoryID:      &category,
		CategoryName:    "Food & Dining",
		Tags:            []string{"lunch"},
		Attachments:     []string{},
	}
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	suite.unlocked()
	txn := sampleTransaction(11)
	suite.transactions.On("CreateTransaction", mock.Anything, testScope,
		mock.MatchedBy(func(req dto.TransactionRequest) bool {
			return req.TransactionType == domain.TransactionExpense &&
				req.Amount.Equal(decimal.NewFromInt(30)) &&
				req.Date == "2024-03-09" && req.AccountID == 1
		}),
	).Return(&txn, nil).Once()

	w := suite.do(http.MethodPost, scopePath+"/transactions", map[string]any{
		"transactionType": "expense",
		"amount":          "30",
		"date":            "2024-03-09",
		"accountId":       1,
		"categoryId":      3,
	})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.TransactionResponse
	suite.decode(w, &resp)
	suite.Equal(int64(11), resp.TransactionID)
	suite.Equal("2024-03-09", resp.Date)
	suite.Equal("Food & Dining", resp.CategoryName)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_RejectsMalformedDate() {
	suite.unlocked()

	w := suite.do(http.MethodPost, scopePath+"/transactions", map[string]any{
		"transactionType": "expense",
		"amount":          "30",
		"date":            "09/03/2024",
		"accountId":       1,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.transactions.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_UnexpectedError() {
	suite.unlocked()
	suite.transactions.On("CreateTransaction", mock.Anything, testScope, mock.Anything).
		Return(nil, errors.New("balance update failed")).Once()

	w := suite.do(http.MethodPost, scopePath+"/transactions", map[string]any{
		"transactionType": "income",
		"amount":          "10",
		"date":            "2024-03-09",
		"accountId":       1,
	})

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to create transaction", suite.errorMessage(w))
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_PassesFilterAndToken() {
	suite.unlocked()
	next := "next-page"
	suite.transactions.On("ListTransactions", mock.Anything, testScope,
		mock.MatchedBy(func(f domain.TransactionFilter) bool {
			return f.Limit == 2 &&
				f.Type != nil && *f.Type == domain.TransactionExpense &&
				f.From != nil && f.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
				f.To == nil &&
				f.NextToken != nil && *f.NextToken == "abc" &&
				f.Search == "lunch"
		}),
	).Return([]domain.Transaction{sampleTransaction(9), sampleTransaction(8)}, &next, nil).Once()

	w := suite.do(http.MethodGet, scopePath+"/transactions?limit=2&type=expense&from=2024-03-01&nextToken=abc&search=lunch", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListTransactionsResponse
	suite.decode(w, &resp)
	suite.Len(resp.Transactions, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-page", *resp.NextToken)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_DefaultLimit() {
	suite.unlocked()
	suite.transactions.On("ListTransactions", mock.Anything, testScope,
		mock.MatchedBy(func(f domain.TransactionFilter) bool { return f.Limit == 50 && f.NextToken == nil }),
	).Return([]domain.Transaction{}, nil, nil).Once()

	w := suite.do(http.MethodGet, scopePath+"/transactions", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "nextToken")
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_InvalidQuery() {
	suite.unlocked()

	for _, query := range []string{"?type=refund", "?from=March", "?limit=-1", "?limit=100000"} {
		w := suite.do(http.MethodGet, scopePath+"/transactions"+query, nil)
		suite.Equal(http.StatusBadRequest, w.Code, query)
	}
}

func (suite *TransactionHandlerTestSuite) TestDeleteTransaction() {
	suite.unlocked()
	suite.transactions.On("DeleteTransaction", mock.Anything, testScope, int64(5)).Return(nil).Once()

	w := suite.do(http.MethodDelete, scopePath+"/transactions/5", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestGetSummary() {
	suite.unlocked()
	suite.reporting.On("GetSummary", mock.Anything, testScope,
		mock.MatchedBy(func(from *time.Time) bool { return from != nil && from.Month() == time.January }),
		mock.MatchedBy(func(to *time.Time) bool { return to != nil && to.Month() == time.June }),
	).Return(&domain.LedgerSummary{Scope: testScope, Net: decimal.NewFromInt(15), TransactionCount: 4}, nil).Once()

	w := suite.do(http.MethodGet, scopePath+"/reports/summary?from=2024-01-01&to=2024-06-30", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var summary domain.LedgerSummary
	suite.decode(w, &summary)
	suite.Equal(4, summary.TransactionCount)
	suite.True(summary.Net.Equal(decimal.NewFromInt(15)))
}

func (suite *TransactionHandlerTestSuite) TestGetSummary_InvalidDate() {
	suite.unlocked()

	w := suite.do(http.MethodGet, scopePath+"/reports/summary?from=yesterday", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
