package sqlite

import (
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every sqlite repository onto store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	system := newSystemRepository(store)
	return portsrepo.RepositoryProvider{
		TxManager:          &BaseRepository{store: store},
		Store:              store,
		BankRepo:           newBankRepository(store),
		ScopeRepo:          newScopeRepository(store),
		AccountRepo:        newAccountRepository(store),
		CategoryRepo:       newCategoryRepository(store),
		TransactionRepo:    newTransactionRepository(store),
		PendingRestoreRepo: system,
		SettingsRepo:       system,
	}
}
