package services_test

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/core/services"
)

// flakyScopeRepo fails TableDefinitions with failWith for the first failures calls.
type flakyScopeRepo struct {
	portsrepo.ScopeRepository
	failures int
	failWith error
	onCall   func(call int)
	calls    int
}

func (r *flakyScopeRepo) TableDefinitions(ctx context.Context) ([]string, error) {
	r.calls++
	if r.onCall != nil {
		r.onCall(r.calls)
	}
	if r.calls <= r.failures {
		return nil, fmt.Errorf("%w: disk I/O error on call %d", r.failWith, r.calls)
	}
	return r.ScopeRepository.TableDefinitions(ctx)
}

func (suite *LedgerServicesTestSuite) backupWithFlakyReads(flaky *flakyScopeRepo, attempts int, delay time.Duration) portssvc.BackupSvc {
	flaky.ScopeRepository = suite.repos.ScopeRepo
	repos := suite.repos
	repos.ScopeRepo = flaky

	cfg := *suite.cfg
	cfg.BackupRetryAttempts = attempts
	cfg.BackupRetryDelay = delay
	return services.NewBackupService(&cfg, repos, suite.svc.Schema, suite.svc.Balance, suite.svc.Currency, services.NewScopeLocker())
}

func (suite *LedgerServicesTestSuite) TestCreateBackupRetriesStorageErrors() {
	suite.seedLedger()
	flaky := &flakyScopeRepo{failures: 2, failWith: apperrors.ErrStorage}
	backup := suite.backupWithFlakyReads(flaky, 3, 5*time.Millisecond)

	start := time.Now()
	file, err := backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{})

	suite.Require().NoError(err)
	suite.Equal(3, flaky.calls)
	suite.GreaterOrEqual(time.Since(start), 10*time.Millisecond, "two fixed delays between three attempts")
	suite.Len(file.Snapshot.Data.Transactions, 2)
}

func (suite *LedgerServicesTestSuite) TestCreateBackupGivesUpAfterLastAttempt() {
	flaky := &flakyScopeRepo{failures: 10, failWith: apperrors.ErrStorage}
	backup := suite.backupWithFlakyReads(flaky, 3, time.Millisecond)

	_, err := backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{})

	suite.ErrorIs(err, apperrors.ErrStorage)
	suite.Equal(3, flaky.calls)
}

func (suite *LedgerServicesTestSuite) TestCreateBackupDoesNotRetryOtherErrors() {
	flaky := &flakyScopeRepo{failures: 10, failWith: apperrors.ErrSchema}
	backup := suite.backupWithFlakyReads(flaky, 3, time.Millisecond)

	_, err := backup.CreateBackup(suite.ctx, suite.scope, domain.BackupOptions{})

	suite.ErrorIs(err, apperrors.ErrSchema)
	suite.Equal(1, flaky.calls)
}

func (suite *LedgerServicesTestSuite) TestCreateBackupRetryStopsOnCancel() {
	ctx, cancel := context.WithCancel(suite.ctx)
	defer cancel()
	flaky := &flakyScopeRepo{
		failures: 10,
		failWith: apperrors.ErrStorage,
		onCall:   func(int) { cancel() },
	}
	backup := suite.backupWithFlakyReads(flaky, 5, time.Hour)

	done := make(chan error, 1)
	go func() {
		_, err := backup.CreateBackup(ctx, suite.scope, domain.BackupOptions{})
		done <- err
	}()

	select {
	case err := <-done:
		suite.ErrorIs(err, context.Canceled)
		suite.ErrorIs(err, apperrors.ErrStorage)
		suite.Equal(1, flaky.calls)
	case <-time.After(5 * time.Second):
		suite.FailNow("backup kept waiting after the context was cancelled")
	}
}
