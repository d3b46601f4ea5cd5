package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = "2.0"

// BackupFormat names a serialization profile for snapshots.
type BackupFormat string

const (
	FormatJSON      BackupFormat = "ledgerbook-json"
	FormatJSONGzip  BackupFormat = "ledgerbook-json-gzip"
	FormatEncrypted BackupFormat = "ledgerbook-encrypted"
)

// FormatInfo describes a backup format for file naming and downloads.
type FormatInfo struct {
	Format      BackupFormat `json:"format"`
	Extension   string       `json:"extension"`
	MimeType    string       `json:"mimeType"`
	Description string       `json:"description"`
	Version     string       `json:"version"`
}

// BackupFormats is the registry of supported snapshot formats.
var BackupFormats = map[BackupFormat]FormatInfo{
	FormatJSON: {
		Format:      FormatJSON,
		Extension:   ".ledgerbook.json",
		MimeType:    "application/json",
		Description: "Plain JSON snapshot",
		Version:     SnapshotVersion,
	},
	FormatJSONGzip: {
		Format:      FormatJSONGzip,
		Extension:   ".ledgerbook.json.gz",
		MimeType:    "application/gzip",
		Description: "Gzip-compressed JSON snapshot",
		Version:     SnapshotVersion,
	},
	FormatEncrypted: {
		Format:      FormatEncrypted,
		Extension:   ".ledgerbook.enc",
		MimeType:    "application/octet-stream",
		Description: "Passphrase-encrypted, compressed JSON snapshot",
		Version:     SnapshotVersion,
	},
}

// Snapshot is the versioned envelope of an exported scope.
type Snapshot struct {
	Version   string           `json:"version" validate:"required"`
	Timestamp time.Time        `json:"timestamp" validate:"required"`
	Format    BackupFormat     `json:"format" validate:"required"`
	Metadata  SnapshotMetadata `json:"metadata"`
	Data      *SnapshotData    `json:"data" validate:"required"`
}

// SnapshotMetadata records where a snapshot was produced.
type SnapshotMetadata struct {
	AppVersion string `json:"appVersion"`
	Platform   string `json:"platform"`
	UserAgent  string `json:"userAgent"`
	Timezone   string `json:"timezone"`
}

// SnapshotData holds the exported rows.
type SnapshotData struct {
	// Schema is the raw DDL of the ledger tables at export time. It is
	// informational; restore never executes it.
	Schema       []string            `json:"schema"`
	Banks        []BankRecord        `json:"banks" validate:"required,dive"`
	Accounts     []AccountRecord     `json:"accounts" validate:"required,dive"`
	Categories   []CategoryRecord    `json:"categories" validate:"required,dive"`
	Transactions []TransactionRecord `json:"transactions" validate:"required,dive"`
	Metadata     DataMetadata        `json:"metadata"`
}

// DataMetadata identifies the exported scope and its row counts.
type DataMetadata struct {
	RecordCounts map[string]int `json:"recordCounts" validate:"required"`
	BankID       int64          `json:"bankId" validate:"gte=0"`
	Year         int            `json:"year" validate:"gte=0"`
}

// BankRecord is the snapshot form of a Bank.
type BankRecord struct {
	ID        int64     `json:"id" validate:"required,gt=0"`
	Name      string    `json:"name" validate:"required"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountRecord is the snapshot form of an Account.
type AccountRecord struct {
	ID             int64               `json:"id" validate:"required,gt=0"`
	Name           string              `json:"name" validate:"required"`
	Type           AccountType         `json:"type" validate:"required,oneof=checking savings credit investment cash other"`
	Currency       string              `json:"currency"`
	InitialBalance decimal.NullDecimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal     `json:"currentBalance"`
	ColorCode      string              `json:"colorCode"`
	Icon           string              `json:"icon"`
	Notes          string              `json:"notes"`
	IsDefault      bool                `json:"isDefault"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// CategoryRecord is the snapshot form of a Category.
type CategoryRecord struct {
	ID               int64        `json:"id" validate:"required,gt=0"`
	Name             string       `json:"name" validate:"required"`
	Type             CategoryType `json:"type" validate:"required,oneof=expense income"`
	ParentCategoryID *int64       `json:"parentCategoryId,omitempty" validate:"omitempty,gt=0"`
	ColorCode        string       `json:"colorCode"`
	Icon             string       `json:"icon"`
	IsDefault        bool         `json:"isDefault"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// TransactionRecord is the snapshot form of a Transaction.
type TransactionRecord struct {
	ID            int64               `json:"id" validate:"required,gt=0"`
	Type          TransactionType     `json:"type" validate:"required,oneof=expense income transfer"`
	Amount        decimal.NullDecimal `json:"amount"`
	Date          string              `json:"date" validate:"required,datetime=2006-01-02"`
	AccountID     int64               `json:"accountId" validate:"required,gt=0"`
	ToAccountID   *int64              `json:"toAccountId,omitempty" validate:"omitempty,gt=0"`
	CategoryID    *int64              `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	Description   string              `json:"description"`
	PaymentMethod string              `json:"paymentMethod"`
	Location      string              `json:"location"`
	Notes         string              `json:"notes"`
	Tags          []string            `json:"tags"`
	Attachments   []string            `json:"attachments"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// RecordCountKeys lists the collections every snapshot must count.
var RecordCountKeys = []string{CountBanks, CountAccounts, CountCategories, CountTransactions}

// Record count keys used in DataMetadata.RecordCounts.
const (
	CountBanks        = "banks"
	CountAccounts     = "accounts"
	CountCategories   = "categories"
	CountTransactions = "transactions"
)

// BackupFile is an encoded snapshot ready to be handed to the user.
type BackupFile struct {
	FileName string       `json:"fileName"`
	MimeType string       `json:"mimeType"`
	Format   BackupFormat `json:"format"`
	Data     []byte       `json:"-"`
	Snapshot *Snapshot    `json:"-"`
}

// BackupOptions controls snapshot export.
type BackupOptions struct {
	Format     BackupFormat
	Passphrase string
	UserAgent  string
}

// RestoreOptions controls snapshot import.
type RestoreOptions struct {
	// Target overrides the scope recorded in the snapshot.
	Target     *Scope
	Passphrase string
}

// RestoreResult summarizes a completed restore.
type RestoreResult struct {
	Scope                 Scope                `json:"scope"`
	BanksCreated          int                  `json:"banksCreated"`
	AccountsCreated       int                  `json:"accountsCreated"`
	AccountsMapped        int                  `json:"accountsMapped"`
	CategoriesCreated     int                  `json:"categoriesCreated"`
	CategoriesMapped      int                  `json:"categoriesMapped"`
	TransactionsRestored  int                  `json:"transactionsRestored"`
	TransactionsSkipped   int                  `json:"transactionsSkipped"`
	SkippedTransactionIDs []int64              `json:"skippedTransactionIds"`
	Recalculation         *RecalculationResult `json:"recalculation"`
}

// PendingRestore is a snapshot staged for application at the next start.
type PendingRestore struct {
	Payload  []byte    `json:"-"`
	Target   *Scope    `json:"target,omitempty"`
	StagedAt time.Time `json:"stagedAt"`
}
