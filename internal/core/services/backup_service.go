package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/platform/config"
	"github.com/SscSPs/ledgerbook/internal/utils/backupcodec"
	"github.com/shopspring/decimal"
)

// restoredBankName names a target bank that restore had to create.
const restoredBankName = "Restored Bank"

// backupService implements the BackupSvc interface
type backupService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	bankRepo     portsrepo.BankRepositoryFacade
	scopeRepo    portsrepo.ScopeRepository
	accountRepo  portsrepo.AccountRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	txnRepo      portsrepo.TransactionRepositoryFacade
	pendingRepo  portsrepo.PendingRestoreRepository
	schema       portssvc.SchemaSvc
	balance      portssvc.BalanceSvc
	currency     portssvc.CurrencySvc
	codec        *backupcodec.Codec
	locker       *ScopeLocker

	appVersion    string
	timezone      string
	retryAttempts int
	retryDelay    time.Duration
}

// NewBackupService creates the backup/restore pipeline.
func NewBackupService(cfg *config.Config, repos portsrepo.RepositoryProvider, schema portssvc.SchemaSvc, balance portssvc.BalanceSvc, currency portssvc.CurrencySvc, locker *ScopeLocker) portssvc.BackupSvc {
	attempts := cfg.BackupRetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &backupService{
		BaseService:   BaseService{Persister: repos.Store},
		txManager:     repos.TxManager,
		bankRepo:      repos.BankRepo,
		scopeRepo:     repos.ScopeRepo,
		accountRepo:   repos.AccountRepo,
		categoryRepo:  repos.CategoryRepo,
		txnRepo:       repos.TransactionRepo,
		pendingRepo:   repos.PendingRestoreRepo,
		schema:        schema,
		balance:       balance,
		currency:      currency,
		codec:         backupcodec.New(cfg.BackupMaxBytes),
		locker:        locker,
		appVersion:    cfg.AppVersion,
		timezone:      cfg.Timezone,
		retryAttempts: attempts,
		retryDelay:    cfg.BackupRetryDelay,
	}
}

var _ portssvc.BackupSvc = (*backupService)(nil)

func (s *backupService) CreateBackup(ctx context.Context, scope domain.Scope, opts domain.BackupOptions) (*domain.BackupFile, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	format := opts.Format
	if format == "" {
		format = domain.FormatJSON
	}
	info, ok := domain.BackupFormats[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported backup format %q", apperrors.ErrValidation, format)
	}

	snapshot, err := s.readSnapshotWithRetry(ctx, scope)
	if err != nil {
		s.LogError(ctx, err, "Failed to read scope for backup", scopeAttrs(scope)...)
		return nil, err
	}
	snapshot.Metadata = domain.SnapshotMetadata{
		AppVersion: s.appVersion,
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		UserAgent:  opts.UserAgent,
		Timezone:   s.timezone,
	}

	data, err := s.codec.Encode(snapshot, format, opts.Passphrase)
	if err != nil {
		s.LogError(ctx, err, "Failed to encode backup", scopeAttrs(scope)...)
		return nil, err
	}

	file := &domain.BackupFile{
		FileName: fmt.Sprintf("ledgerbook-%d-%d-%s%s", scope.BankID, scope.Year, snapshot.Timestamp.Format("20060102-150405"), info.Extension),
		MimeType: info.MimeType,
		Format:   format,
		Data:     data,
		Snapshot: snapshot,
	}
	s.LogInfo(ctx, "Backup created", append(scopeAttrs(scope),
		slog.String("format", string(format)),
		slog.Int("bytes", len(data)),
		slog.Int("transactions", len(snapshot.Data.Transactions)))...)
	return file, nil
}

// readSnapshotWithRetry retries the whole read on storage errors.
func (s *backupService) readSnapshotWithRetry(ctx context.Context, scope domain.Scope) (*domain.Snapshot, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		snapshot, err := s.readSnapshot(ctx, scope)
		if err == nil {
			return snapshot, nil
		}
		lastErr = err
		if !errors.Is(err, apperrors.ErrStorage) || attempt == s.retryAttempts {
			break
		}
		s.GetLogger(ctx).Warn("Backup read failed, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		timer := time.NewTimer(s.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(lastErr, ctx.Err())
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (s *backupService) readSnapshot(ctx context.Context, scope domain.Scope) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{
		Version:   domain.SnapshotVersion,
		Timestamp: now(),
	}
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.bankRepo.FindBankByID(ctx, scope.BankID); err != nil {
			return err
		}
		banks, err := s.bankRepo.ListBanks(ctx)
		if err != nil {
			return err
		}
		accounts, err := s.accountRepo.ListAccounts(ctx, scope)
		if err != nil {
			return err
		}
		categories, err := s.categoryRepo.ListCategories(ctx, scope, nil)
		if err != nil {
			return err
		}
		txns, err := s.txnRepo.ListTransactionsForReplay(ctx, scope)
		if err != nil {
			return err
		}
		tables, err := s.scopeRepo.TableDefinitions(ctx)
		if err != nil {
			return err
		}

		snapshot.Data = buildSnapshotData(scope, banks, accounts, categories, txns)
		snapshot.Data.Schema = append(snapshot.Data.Schema, tables...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func buildSnapshotData(scope domain.Scope, banks []domain.Bank, accounts []domain.Account, categories []domain.Category, txns []domain.Transaction) *domain.SnapshotData {
	data := &domain.SnapshotData{
		Schema:       []string{},
		Banks:        make([]domain.BankRecord, 0, len(banks)),
		Accounts:     make([]domain.AccountRecord, 0, len(accounts)),
		Categories:   make([]domain.CategoryRecord, 0, len(categories)),
		Transactions: make([]domain.TransactionRecord, 0, len(txns)),
	}
	for _, b := range banks {
		data.Banks = append(data.Banks, domain.BankRecord{ID: b.BankID, Name: b.Name, Icon: b.Icon, CreatedAt: b.CreatedAt})
	}
	for _, a := range accounts {
		data.Accounts = append(data.Accounts, domain.AccountRecord{
			ID:             a.AccountID,
			Name:           a.Name,
			Type:           a.AccountType,
			Currency:       a.Currency,
			InitialBalance: decimal.NewNullDecimal(a.InitialBalance),
			CurrentBalance: a.CurrentBalance,
			ColorCode:      a.ColorCode,
			Icon:           a.Icon,
			Notes:          a.Notes,
			IsDefault:      a.IsDefault,
			CreatedAt:      a.CreatedAt,
			UpdatedAt:      a.UpdatedAt,
		})
	}
	for _, c := range categories {
		data.Categories = append(data.Categories, domain.CategoryRecord{
			ID:               c.CategoryID,
			Name:             c.Name,
			Type:             c.CategoryType,
			ParentCategoryID: c.ParentCategoryID,
			ColorCode:        c.ColorCode,
			Icon:             c.Icon,
			IsDefault:        c.IsDefault,
			CreatedAt:        c.CreatedAt,
			UpdatedAt:        c.UpdatedAt,
		})
	}
	for _, t := range txns {
		data.Transactions = append(data.Transactions, domain.TransactionRecord{
			ID:            t.TransactionID,
			Type:          t.TransactionType,
			Amount:        decimal.NewNullDecimal(t.Amount),
			Date:          t.Date.Format(domain.DateLayout),
			AccountID:     t.AccountID,
			ToAccountID:   t.ToAccountID,
			CategoryID:    t.CategoryID,
			Description:   t.Description,
			PaymentMethod: t.PaymentMethod,
			Location:      t.Location,
			Notes:         t.Notes,
			Tags:          t.Tags,
			Attachments:   t.Attachments,
			CreatedAt:     t.CreatedAt,
			UpdatedAt:     t.UpdatedAt,
		})
	}
	data.Metadata = domain.DataMetadata{
		RecordCounts: map[string]int{
			domain.CountBanks:        len(data.Banks),
			domain.CountAccounts:     len(data.Accounts),
			domain.CountCategories:   len(data.Categories),
			domain.CountTransactions: len(data.Transactions),
		},
		BankID: scope.BankID,
		Year:   scope.Year,
	}
	return data
}

func restoreTarget(snapshot *domain.Snapshot, target *domain.Scope) (domain.Scope, error) {
	scope := domain.Scope{BankID: snapshot.Data.Metadata.BankID, Year: snapshot.Data.Metadata.Year}
	if target != nil {
		scope = *target
	}
	if err := scope.Validate(); err != nil {
		return scope, fmt.Errorf("%w: restore target: %w", apperrors.ErrValidation, err)
	}
	return scope, nil
}

func (s *backupService) RestoreBackup(ctx context.Context, data []byte, opts domain.RestoreOptions) (*domain.RestoreResult, error) {
	snapshot, err := s.codec.Decode(data, opts.Passphrase)
	if err != nil {
		s.LogError(ctx, err, "Rejected snapshot before restore")
		return nil, err
	}
	target, err := restoreTarget(snapshot, opts.Target)
	if err != nil {
		return nil, err
	}

	ctx, unlock := s.locker.Lock(ctx, target)
	defer unlock()

	var result *domain.RestoreResult
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.restore(ctx, snapshot, target)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Restore rolled back", scopeAttrs(target)...)
		return nil, err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Snapshot restored", append(scopeAttrs(target),
		slog.Int("accounts_created", result.AccountsCreated),
		slog.Int("accounts_mapped", result.AccountsMapped),
		slog.Int("categories_created", result.CategoriesCreated),
		slog.Int("transactions_restored", result.TransactionsRestored),
		slog.Int("transactions_skipped", result.TransactionsSkipped))...)
	return result, nil
}

// restore rebuilds target from snapshot. It must run inside a transaction.
func (s *backupService) restore(ctx context.Context, snapshot *domain.Snapshot, target domain.Scope) (*domain.RestoreResult, error) {
	result := &domain.RestoreResult{Scope: target, SkippedTransactionIDs: []int64{}}
	ts := now()

	// Banks keep their ids.
	for _, rec := range snapshot.Data.Banks {
		created, err := s.ensureBank(ctx, rec.ID, rec.Name, rec.Icon, rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		if created {
			result.BanksCreated++
		}
	}
	created, err := s.ensureBank(ctx, target.BankID, restoredBankName, "", ts)
	if err != nil {
		return nil, err
	}
	if created {
		result.BanksCreated++
	}

	if err := s.schema.Recreate(ctx, target); err != nil {
		return nil, err
	}
	if _, err := s.schema.SeedDefaults(ctx, target); err != nil {
		return nil, err
	}

	accountMap, err := s.restoreAccounts(ctx, snapshot.Data.Accounts, target, result, ts)
	if err != nil {
		return nil, err
	}
	categoryMap, err := s.restoreCategories(ctx, snapshot.Data.Categories, target, result, ts)
	if err != nil {
		return nil, err
	}
	if err := s.replayTransactions(ctx, snapshot.Data.Transactions, target, accountMap, categoryMap, result, ts); err != nil {
		return nil, err
	}

	recalc, err := s.balance.RecalculateAccountBalances(ctx, target)
	if err != nil {
		return nil, err
	}
	result.Recalculation = recalc
	return result, nil
}

func (s *backupService) ensureBank(ctx context.Context, bankID int64, name, icon string, createdAt time.Time) (bool, error) {
	_, err := s.bankRepo.FindBankByID(ctx, bankID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}
	if createdAt.IsZero() {
		createdAt = now()
	}
	bank := domain.Bank{BankID: bankID, Name: name, Icon: icon, CreatedAt: createdAt, UpdatedAt: now()}
	if _, err := s.bankRepo.SaveBank(ctx, bank); err != nil {
		return false, err
	}
	return true, nil
}

// snapshotDefaultAccount picks the flagged default account, or the account
// named like the seeded one when nothing is flagged.
func snapshotDefaultAccount(records []domain.AccountRecord, seedName string) int64 {
	for _, rec := range records {
		if rec.IsDefault {
			return rec.ID
		}
	}
	for _, rec := range records {
		if domain.NormalizeName(rec.Name) == domain.NormalizeName(seedName) {
			return rec.ID
		}
	}
	return 0
}

func (s *backupService) restoreAccounts(ctx context.Context, records []domain.AccountRecord, target domain.Scope, result *domain.RestoreResult, ts time.Time) (map[int64]int64, error) {
	mapping := make(map[int64]int64, len(records))

	existing, err := s.accountRepo.ListAccounts(ctx, target)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(existing))
	for _, a := range existing {
		if _, taken := byName[domain.NormalizeName(a.Name)]; !taken {
			byName[domain.NormalizeName(a.Name)] = a.AccountID
		}
	}
	defaultAccount, err := s.accountRepo.FindDefaultAccount(ctx, target)
	if err != nil {
		return nil, err
	}

	defaultRecord := snapshotDefaultAccount(records, s.schema.DefaultSeed().Account.Name)
	for _, rec := range records {
		if rec.ID == defaultRecord {
			defaultAccount.InitialBalance = rec.InitialBalance.Decimal
			defaultAccount.CurrentBalance = rec.InitialBalance.Decimal
			if currency, err := s.currency.ValidateCurrency(rec.Currency); err == nil {
				defaultAccount.Currency = currency
			}
			defaultAccount.UpdatedAt = ts
			if err := s.accountRepo.UpdateAccount(ctx, *defaultAccount); err != nil {
				return nil, err
			}
			mapping[rec.ID] = defaultAccount.AccountID
			result.AccountsMapped++
			continue
		}

		key := domain.NormalizeName(rec.Name)
		if id, ok := byName[key]; ok {
			mapping[rec.ID] = id
			result.AccountsMapped++
			continue
		}

		currency, err := s.currency.ValidateCurrency(rec.Currency)
		if err != nil {
			currency = s.currency.DefaultCurrency()
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = ts
		}
		id, err := s.accountRepo.SaveAccount(ctx, domain.Account{
			BankID:         target.BankID,
			Year:           target.Year,
			Name:           rec.Name,
			AccountType:    rec.Type,
			Currency:       currency,
			InitialBalance: rec.InitialBalance.Decimal,
			CurrentBalance: rec.InitialBalance.Decimal,
			ColorCode:      rec.ColorCode,
			Icon:           rec.Icon,
			Notes:          rec.Notes,
			AuditFields:    domain.AuditFields{CreatedAt: createdAt, UpdatedAt: ts},
		})
		if err != nil {
			return nil, err
		}
		mapping[rec.ID] = id
		byName[key] = id
		result.AccountsCreated++
	}
	return mapping, nil
}

func (s *backupService) restoreCategories(ctx context.Context, records []domain.CategoryRecord, target domain.Scope, result *domain.RestoreResult, ts time.Time) (map[int64]int64, error) {
	mapping := make(map[int64]int64, len(records))

	existing, err := s.categoryRepo.ListCategories(ctx, target, nil)
	if err != nil {
		return nil, err
	}
	byKey := make(map[domain.CategoryKey]int64, len(existing))
	for _, c := range existing {
		if _, taken := byKey[c.Key()]; !taken {
			byKey[c.Key()] = c.CategoryID
		}
	}

	sorted := append([]domain.CategoryRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	inserted := make(map[int64]domain.Category)
	for _, rec := range sorted {
		key := domain.CategoryKey{Name: domain.NormalizeName(rec.Name), Type: rec.Type}
		if id, ok := byKey[key]; ok {
			mapping[rec.ID] = id
			result.CategoriesMapped++
			continue
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = ts
		}
		category := domain.Category{
			BankID:       target.BankID,
			Year:         target.Year,
			Name:         rec.Name,
			CategoryType: rec.Type,
			ColorCode:    rec.ColorCode,
			Icon:         rec.Icon,
			IsDefault:    rec.IsDefault,
			AuditFields:  domain.AuditFields{CreatedAt: createdAt, UpdatedAt: ts},
		}
		id, err := s.categoryRepo.SaveCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		category.CategoryID = id
		inserted[rec.ID] = category
		mapping[rec.ID] = id
		byKey[key] = id
		result.CategoriesCreated++
	}

	// Parents are linked once every category has its new id.
	for _, rec := range sorted {
		category, ok := inserted[rec.ID]
		if !ok || rec.ParentCategoryID == nil {
			continue
		}
		parentID, ok := mapping[*rec.ParentCategoryID]
		if !ok || parentID == category.CategoryID {
			continue
		}
		category.ParentCategoryID = &parentID
		if err := s.categoryRepo.UpdateCategory(ctx, category); err != nil {
			return nil, err
		}
	}
	return mapping, nil
}

// fallbackCategories resolves the category used for each type when a
// transaction's own category cannot be mapped.
func (s *backupService) fallbackCategories(ctx context.Context, target domain.Scope) (map[domain.CategoryType]int64, error) {
	fallbacks := make(map[domain.CategoryType]int64, 2)
	seed := s.schema.DefaultSeed()
	for _, t := range []domain.CategoryType{domain.CategoryExpense, domain.CategoryIncome} {
		c, err := s.categoryRepo.FindCategoryByName(ctx, target, seed.FallbackName(t), t)
		if err == nil {
			fallbacks[t] = c.CategoryID
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		ct := t
		list, err := s.categoryRepo.ListCategories(ctx, target, &ct)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			if c.IsDefault {
				fallbacks[t] = c.CategoryID
				break
			}
		}
	}
	return fallbacks, nil
}

func (s *backupService) replayTransactions(ctx context.Context, records []domain.TransactionRecord, target domain.Scope, accountMap, categoryMap map[int64]int64, result *domain.RestoreResult, ts time.Time) error {
	fallbacks, err := s.fallbackCategories(ctx, target)
	if err != nil {
		return err
	}
	categoryTypes := make(map[int64]domain.CategoryType)
	categories, err := s.categoryRepo.ListCategories(ctx, target, nil)
	if err != nil {
		return err
	}
	for _, c := range categories {
		categoryTypes[c.CategoryID] = c.CategoryType
	}

	sorted := append([]domain.TransactionRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].ID < sorted[j].ID
	})

	skip := func(id int64, reason string) {
		result.TransactionsSkipped++
		result.SkippedTransactionIDs = append(result.SkippedTransactionIDs, id)
		s.LogDebug(ctx, "Skipped snapshot transaction", slog.Int64("transaction_id", id), slog.String("reason", reason))
	}

	for _, rec := range sorted {
		accountID, ok := accountMap[rec.AccountID]
		if !ok {
			skip(rec.ID, "account missing")
			continue
		}
		date, err := time.Parse(domain.DateLayout, rec.Date)
		if err != nil {
			return fmt.Errorf("%w: transaction %d date: %w", apperrors.ErrBackupIntegrity, rec.ID, err)
		}

		txn := domain.Transaction{
			BankID:          target.BankID,
			Year:            target.Year,
			TransactionType: rec.Type,
			Amount:          rec.Amount.Decimal,
			Date:            date,
			AccountID:       accountID,
			Description:     rec.Description,
			PaymentMethod:   rec.PaymentMethod,
			Location:        rec.Location,
			Notes:           rec.Notes,
			Tags:            nonNil(rec.Tags),
			Attachments:     nonNil(rec.Attachments),
			AuditFields:     domain.AuditFields{CreatedAt: rec.CreatedAt, UpdatedAt: ts},
		}
		if txn.CreatedAt.IsZero() {
			txn.CreatedAt = ts
		}

		if rec.Type == domain.TransactionTransfer {
			toID, ok := accountMap[derefOr(rec.ToAccountID, 0)]
			if !ok {
				skip(rec.ID, "destination account missing")
				continue
			}
			txn.ToAccountID = &toID
		} else if want, ok := rec.Type.CategoryType(); ok {
			categoryID, mapped := categoryMap[derefOr(rec.CategoryID, 0)]
			if !mapped || categoryTypes[categoryID] != want {
				categoryID, mapped = fallbacks[want]
			}
			if mapped {
				txn.CategoryID = &categoryID
			}
		}

		if err := txn.Validate(); err != nil {
			skip(rec.ID, err.Error())
			continue
		}
		if _, err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
			return err
		}
		result.TransactionsRestored++
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func derefOr(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}

func (s *backupService) StageRestore(ctx context.Context, data []byte, opts domain.RestoreOptions) (*domain.PendingRestore, error) {
	snapshot, err := s.codec.Decode(data, opts.Passphrase)
	if err != nil {
		return nil, err
	}
	if _, err := restoreTarget(snapshot, opts.Target); err != nil {
		return nil, err
	}
	// Staged payloads are kept as plain JSON so startup needs no passphrase.
	payload, err := s.codec.Encode(snapshot, domain.FormatJSON, "")
	if err != nil {
		return nil, err
	}

	pending := domain.PendingRestore{Payload: payload, Target: opts.Target, StagedAt: now()}
	if err := s.pendingRepo.SavePendingRestore(ctx, pending); err != nil {
		s.LogError(ctx, err, "Failed to stage restore")
		return nil, err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Restore staged for next start", slog.Int("bytes", len(payload)))
	return &pending, nil
}

func (s *backupService) ApplyPendingRestore(ctx context.Context) (*domain.RestoreResult, error) {
	var pending *domain.PendingRestore
	// The staged row is consumed in its own transaction so a failing restore
	// is not retried on every start.
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		pending, err = s.pendingRepo.TakePendingRestore(ctx)
		return err
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to read staged restore")
		return nil, err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Applying staged restore", slog.Time("staged_at", pending.StagedAt))
	return s.RestoreBackup(ctx, pending.Payload, domain.RestoreOptions{Target: pending.Target})
}

func (s *backupService) HasPendingRestore(ctx context.Context) (bool, error) {
	return s.pendingRepo.HasPendingRestore(ctx)
}
