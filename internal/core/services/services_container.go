package services

import (
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// One locker for every service so mutations of a scope never interleave.
	locker := NewScopeLocker()

	container.Currency = NewCurrencyService(cfg.DefaultCurrency)
	container.Schema = NewSchemaService(
		repos,
		container.Currency.DefaultCurrency(),
		WithSeed(domain.StandardSeed()),
		WithSchemaLocker(locker),
		WithSchemaPersister(repos.Store),
	)
	container.Bank = NewBankService(repos, locker)
	container.Balance = NewBalanceService(repos, locker)
	container.Account = NewAccountService(repos, container.Schema, container.Currency, locker)
	container.Category = NewCategoryService(repos, container.Schema, locker)
	container.Transaction = NewTransactionService(repos, container.Schema, container.Balance, locker)
	container.Backup = NewBackupService(cfg, repos, container.Schema, container.Balance, container.Currency, locker)
	container.Reporting = NewReportingService(repos, container.Currency)
	container.Auth = NewAuthService(cfg, repos)
	container.System = NewSystemService(repos)

	return container
}
