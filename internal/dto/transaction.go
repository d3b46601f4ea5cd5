package dto

import (
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionRequest carries every editable field of a transaction. It is used
// for creation and for full replacement on update.
type TransactionRequest struct {
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=expense income transfer"`
	Amount          decimal.Decimal        `json:"amount"`
	Date            string                 `json:"date" binding:"required,datetime=2006-01-02"`
	AccountID       int64                  `json:"accountId" binding:"required,gt=0"`
	ToAccountID     *int64                 `json:"toAccountId" binding:"omitempty,gt=0"`
	CategoryID      *int64                 `json:"categoryId" binding:"omitempty,gt=0"`
	Description     string                 `json:"description" binding:"max=500"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"max=50"`
	Location        string                 `json:"location" binding:"max=200"`
	Notes           string                 `json:"notes" binding:"max=1000"`
	Tags            []string               `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	Attachments     []string               `json:"attachments" binding:"omitempty,max=20,dive,max=500"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	AccountID  *int64 `form:"accountId" binding:"omitempty,gt=0"`
	CategoryID *int64 `form:"categoryId" binding:"omitempty,gt=0"`
	Type       string `form:"type" binding:"omitempty,oneof=expense income transfer"`
	Search     string `form:"search" binding:"max=100"`
	Limit      int    `form:"limit,default=50" binding:"min=0,max=500"`
	NextToken  string `form:"nextToken"`
}

// ToFilter converts the query parameters to a domain filter.
func (p ListTransactionsParams) ToFilter() (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{
		AccountID:  p.AccountID,
		CategoryID: p.CategoryID,
		Search:     p.Search,
		Limit:      p.Limit,
	}
	if p.From != "" {
		from, err := time.Parse(domain.DateLayout, p.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if p.To != "" {
		to, err := time.Parse(domain.DateLayout, p.To)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	if p.Type != "" {
		t := domain.TransactionType(p.Type)
		filter.Type = &t
	}
	if p.NextToken != "" {
		token := p.NextToken
		filter.NextToken = &token
	}
	return filter, nil
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   int64                  `json:"transactionId"`
	BankID          int64                  `json:"bankId"`
	Year            int                    `json:"year"`
	TransactionType domain.TransactionType `json:"transactionType"`
	Amount          decimal.Decimal        `json:"amount"`
	Date            string                 `json:"date"`
	AccountID       int64                  `json:"accountId"`
	AccountName     string                 `json:"accountName,omitempty"`
	ToAccountID     *int64                 `json:"toAccountId,omitempty"`
	ToAccountName   string                 `json:"toAccountName,omitempty"`
	CategoryID      *int64                 `json:"categoryId,omitempty"`
	CategoryName    string                 `json:"categoryName,omitempty"`
	Description     string                 `json:"description"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Location        string                 `json:"location"`
	Notes           string                 `json:"notes"`
	Tags            []string               `json:"tags"`
	Attachments     []string               `json:"attachments"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		BankID:          txn.BankID,
		Year:            txn.Year,
		TransactionType: txn.TransactionType,
		Amount:          txn.Amount,
		Date:            txn.Date.Format(domain.DateLayout),
		AccountID:       txn.AccountID,
		AccountName:     txn.AccountName,
		ToAccountID:     txn.ToAccountID,
		ToAccountName:   txn.ToAccountName,
		CategoryID:      txn.CategoryID,
		CategoryName:    txn.CategoryName,
		Description:     txn.Description,
		PaymentMethod:   txn.PaymentMethod,
		Location:        txn.Location,
		Notes:           txn.Notes,
		Tags:            txn.Tags,
		Attachments:     txn.Attachments,
		CreatedAt:       txn.CreatedAt,
		UpdatedAt:       txn.UpdatedAt,
	}
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse converts a page of transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := ListTransactionsResponse{Transactions: make([]TransactionResponse, len(txns)), NextToken: nextToken}
	for i, txn := range txns {
		res.Transactions[i] = ToTransactionResponse(&txn)
	}
	return res
}
