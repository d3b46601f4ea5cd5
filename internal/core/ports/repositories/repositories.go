package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager          TransactionManager
	Store              DataStore
	BankRepo           BankRepositoryFacade
	ScopeRepo          ScopeRepository
	AccountRepo        AccountRepositoryFacade
	CategoryRepo       CategoryRepositoryFacade
	TransactionRepo    TransactionRepositoryFacade
	PendingRestoreRepo PendingRestoreRepository
	SettingsRepo       SettingsRepository
}
