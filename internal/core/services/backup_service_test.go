package services_test

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/shopspring/decimal"
)

func (suite *LedgerServicesTestSuite) seedLedger() *domain.Account {
	acc := suite.createAccount(suite.scope, "Checking", "100")
	suite.expense(suite.scope, acc.AccountID, "30", "2024-01-05")
	suite.income(suite.scope, acc.AccountID, "50", "2024-01-06")
	return acc
}

func (suite *LedgerServicesTestSuite) accountByName(scope domain.Scope, name string) *domain.Account {
	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, scope)
	suite.Require().NoError(err)
	for i := range accounts {
		if accounts[i].Name == name {
			return &accounts[i]
		}
	}
	suite.FailNow("account not found", name)
	return nil
}

func (suite *LedgerServicesTestSuite) TestCreateBackupDescribesScope() {
	suite.seedLedger()

	file, err := suite.svc.Backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{UserAgent: "test-agent"})
	suite.Require().NoError(err)
	suite.Equal(domain.FormatJSON, file.Format)
	suite.Equal("application/json", file.MimeType)
	suite.True(strings.HasPrefix(file.FileName, "ledgerbook-"))
	suite.True(strings.HasSuffix(file.FileName, ".ledgerbook.json"))

	var snapshot domain.Snapshot
	suite.Require().NoError(json.Unmarshal(file.Data, &snapshot))
	suite.Equal(domain.SnapshotVersion, snapshot.Version)
	suite.Equal("test-agent", snapshot.Metadata.UserAgent)
	suite.Equal(suite.scope.BankID, snapshot.Data.Metadata.BankID)
	suite.Equal(suite.scope.Year, snapshot.Data.Metadata.Year)
	suite.Len(snapshot.Data.Accounts, 2)
	suite.Len(snapshot.Data.Transactions, 2)
	suite.Equal(2, snapshot.Data.Metadata.RecordCounts[domain.CountTransactions])
	suite.Equal(len(domain.StandardSeed().Categories), snapshot.Data.Metadata.RecordCounts[domain.CountCategories])
	suite.Require().NotEmpty(snapshot.Data.Schema)
	for _, ddl := range snapshot.Data.Schema {
		suite.True(strings.HasPrefix(ddl, "CREATE TABLE"), ddl)
	}
}

func (suite *LedgerServicesTestSuite) TestCreateBackupUnknownBank() {
	_, err := suite.svc.Backup.CreateBackup(suite.ctx, domain.Scope{BankID: 777, Year: 2024}, domain.BackupOptions{})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServicesTestSuite) TestBackupRestoreRoundTripIntoNewBank() {
	suite.seedLedger()

	for _, format := range []domain.BackupFormat{domain.FormatJSON, domain.FormatJSONGzip, domain.FormatEncrypted} {
		file, err := suite.svc.Backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{Format: format, Passphrase: "s3cret"})
		suite.Require().NoError(err, format)

		target := domain.Scope{BankID: 42, Year: 2024}
		result, err := suite.svc.Backup.RestoreBackup(suite.ctx, file.Data, domain.RestoreOptions{Target: &target, Passphrase: "s3cret"})
		suite.Require().NoError(err, format)
		suite.Equal(target, result.Scope)
		suite.Equal(2, result.TransactionsRestored, format)
		suite.Equal(0, result.TransactionsSkipped, format)
		suite.Equal(1, result.AccountsMapped, "default account maps onto the seeded one")
		suite.Equal(1, result.AccountsCreated)
		suite.Equal(len(domain.StandardSeed().Categories), result.CategoriesMapped)

		restored := suite.accountByName(target, "Checking")
		suite.assertAmount("100", restored.InitialBalance)
		suite.assertAmount("120", restored.CurrentBalance)
		suite.requireNoDrift(target)

		bank, err := suite.svc.Bank.GetBankByID(suite.ctx, 42)
		suite.Require().NoError(err)
		suite.Equal("Restored Bank", bank.Name)
	}
}

func (suite *LedgerServicesTestSuite) TestRestoreReplacesScopeInPlace() {
	acc := suite.seedLedger()
	file, err := suite.svc.Backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{Format: domain.FormatJSONGzip})
	suite.Require().NoError(err)

	// Changes after the backup disappear on restore.
	suite.expense(suite.scope, acc.AccountID, "99", "2024-02-01")
	_, err = suite.svc.Account.CreateAccount(suite.ctx, suite.scope, dto.CreateAccountRequest{Name: "Extra", AccountType: domain.AccountOther})
	suite.Require().NoError(err)

	result, err := suite.svc.Backup.RestoreBackup(suite.ctx, file.Data, domain.RestoreOptions{})
	suite.Require().NoError(err)
	suite.Equal(suite.scope, result.Scope)
	suite.Equal(0, result.BanksCreated)

	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Len(accounts, 2)
	suite.assertAmount("120", suite.accountByName(suite.scope, "Checking").CurrentBalance)

	txns, _, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{})
	suite.Require().NoError(err)
	suite.Len(txns, 2)
}

func (suite *LedgerServicesTestSuite) TestRestoreRejectsInvalidSnapshotWithoutWriting() {
	acc := suite.seedLedger()

	_, err := suite.svc.Backup.RestoreBackup(suite.ctx, []byte(`{"version":"1.0"}`), domain.RestoreOptions{})
	suite.ErrorIs(err, apperrors.ErrBackupIntegrity)

	_, err = suite.svc.Backup.RestoreBackup(suite.ctx, []byte("garbage"), domain.RestoreOptions{})
	suite.ErrorIs(err, apperrors.ErrBackupIntegrity)

	suite.assertAmount("120", suite.balanceOf(suite.scope, acc.AccountID))
}

func (suite *LedgerServicesTestSuite) TestRestoreWithoutDataKeepsScope() {
	acc := suite.seedLedger()

	for _, doc := range []string{
		`{"version":"2.0","timestamp":"2024-01-01T00:00:00Z","format":"ledgerbook-json"}`,
		`{"version":"2.0","timestamp":"2024-01-01T00:00:00Z","format":"ledgerbook-json","data":{"banks":[],"accounts":[],"categories":[],"transactions":[{"id":1,"type":"expense","date":"2024-01-01","accountId":1}],"metadata":{"recordCounts":{"banks":0,"accounts":0,"categories":0,"transactions":1}}}}`,
	} {
		_, err := suite.svc.Backup.RestoreBackup(suite.ctx, []byte(doc), domain.RestoreOptions{Target: &suite.scope})
		suite.ErrorIs(err, apperrors.ErrBackupIntegrity, doc)

		_, err = suite.svc.Backup.StageRestore(suite.ctx, []byte(doc), domain.RestoreOptions{Target: &suite.scope})
		suite.ErrorIs(err, apperrors.ErrBackupIntegrity, doc)
	}

	accounts, err := suite.svc.Account.ListAccounts(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Len(accounts, 2)
	suite.assertAmount("120", suite.balanceOf(suite.scope, acc.AccountID))
	txns, _, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{})
	suite.Require().NoError(err)
	suite.Len(txns, 2)
}

func (suite *LedgerServicesTestSuite) TestRestoreEncryptedNeedsPassphrase() {
	suite.seedLedger()
	file, err := suite.svc.Backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{Format: domain.FormatEncrypted, Passphrase: "right"})
	suite.Require().NoError(err)

	_, err = suite.svc.Backup.RestoreBackup(suite.ctx, file.Data, domain.RestoreOptions{Passphrase: "wrong"})
	suite.ErrorIs(err, apperrors.ErrBackupIntegrity)

	_, err = suite.svc.Backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{Format: domain.FormatEncrypted})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServicesTestSuite) TestRestoreRemapsAndSkips() {
	fixture := domain.Snapshot{
		Version:   "2.1",
		Timestamp: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		Format:    domain.FormatJSON,
		Data: &domain.SnapshotData{
			Banks: []domain.BankRecord{},
			Accounts: []domain.AccountRecord{
				{ID: 7, Name: "petty cash", Type: domain.AccountCash, InitialBalance: present("20")},
				{ID: 8, Name: "Wallet", Type: domain.AccountCash, Currency: "GBP", InitialBalance: present("5")},
			},
			Categories: []domain.CategoryRecord{
				{ID: 3, Name: "Food & Dining", Type: domain.CategoryExpense},
				{ID: 4, Name: "Coffee", Type: domain.CategoryExpense, ParentCategoryID: ptr(int64(3))},
			},
			Transactions: []domain.TransactionRecord{
				{ID: 10, Type: domain.TransactionExpense, Amount: present("2"), Date: "2024-01-02", AccountID: 8, CategoryID: ptr(int64(4))},
				{ID: 11, Type: domain.TransactionExpense, Amount: present("1"), Date: "2024-01-01", AccountID: 7, CategoryID: ptr(int64(99))},
				{ID: 12, Type: domain.TransactionIncome, Amount: present("3"), Date: "2024-01-03", AccountID: 55, CategoryID: ptr(int64(3))},
				{ID: 13, Type: domain.TransactionTransfer, Amount: present("4"), Date: "2024-01-04", AccountID: 7, ToAccountID: ptr(int64(8))},
			},
			Metadata: domain.DataMetadata{
				RecordCounts: map[string]int{domain.CountBanks: 0, domain.CountAccounts: 2, domain.CountCategories: 2, domain.CountTransactions: 4},
				BankID:       suite.scope.BankID,
				Year:         suite.scope.Year,
			},
		},
	}
	data, err := json.Marshal(fixture)
	suite.Require().NoError(err)

	result, err := suite.svc.Backup.RestoreBackup(suite.ctx, data, domain.RestoreOptions{})
	suite.Require().NoError(err)
	suite.Equal(3, result.TransactionsRestored)
	suite.Equal(1, result.TransactionsSkipped)
	suite.Equal([]int64{12}, result.SkippedTransactionIDs)
	suite.Equal(1, result.CategoriesCreated)

	petty := suite.accountByName(suite.scope, "Petty Cash")
	suite.True(petty.IsDefault)
	suite.assertAmount("15", petty.CurrentBalance) // 20 - 1 - 4
	wallet := suite.accountByName(suite.scope, "Wallet")
	suite.Equal("GBP", wallet.Currency)
	suite.assertAmount("7", wallet.CurrentBalance) // 5 - 2 + 4

	coffee := suite.categoryID(suite.scope, "Coffee", domain.CategoryExpense)
	category, err := suite.svc.Category.GetCategoryByID(suite.ctx, suite.scope, coffee)
	suite.Require().NoError(err)
	suite.Require().NotNil(category.ParentCategoryID)
	suite.Equal(suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense), *category.ParentCategoryID)

	fallback := suite.categoryID(suite.scope, "Other Expenses", domain.CategoryExpense)
	expense := domain.TransactionExpense
	txns, _, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.scope, domain.TransactionFilter{Type: &expense})
	suite.Require().NoError(err)
	for _, t := range txns {
		suite.True(t.Amount.IsPositive())
		if t.AccountID == petty.AccountID {
			suite.Equal(fallback, *t.CategoryID, "unknown category falls back")
		}
	}
}

func (suite *LedgerServicesTestSuite) TestStagedRestoreAppliesOnce() {
	suite.seedLedger()
	file, err := suite.svc.Backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{Format: domain.FormatEncrypted, Passphrase: "pw"})
	suite.Require().NoError(err)

	pending, err := suite.svc.Backup.HasPendingRestore(suite.ctx)
	suite.Require().NoError(err)
	suite.False(pending)

	target := domain.Scope{BankID: suite.bank.BankID, Year: 2031}
	staged, err := suite.svc.Backup.StageRestore(suite.ctx, file.Data, domain.RestoreOptions{Target: &target, Passphrase: "pw"})
	suite.Require().NoError(err)
	suite.Equal(&target, staged.Target)

	pending, err = suite.svc.Backup.HasPendingRestore(suite.ctx)
	suite.Require().NoError(err)
	suite.True(pending)

	result, err := suite.svc.Backup.ApplyPendingRestore(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(target, result.Scope)
	suite.assertAmount("120", suite.accountByName(target, "Checking").CurrentBalance)

	result, err = suite.svc.Backup.ApplyPendingRestore(suite.ctx)
	suite.NoError(err)
	suite.Nil(result)
}

func (suite *LedgerServicesTestSuite) TestStageRestoreRejectsBadPayload() {
	_, err := suite.svc.Backup.StageRestore(suite.ctx, []byte("{}"), domain.RestoreOptions{})
	suite.ErrorIs(err, apperrors.ErrBackupIntegrity)

	pending, err := suite.svc.Backup.HasPendingRestore(suite.ctx)
	suite.Require().NoError(err)
	suite.False(pending)
}

func present(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(amount(v))
}

func ptr[T any](v T) *T {
	return &v
}
