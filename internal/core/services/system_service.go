package services

import (
	"context"

	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
)

type systemService struct {
	BaseService
	store portsrepo.DataStore
}

// NewSystemService creates the whole-database maintenance service.
func NewSystemService(repos portsrepo.RepositoryProvider) portssvc.SystemSvc {
	return &systemService{
		BaseService: BaseService{Persister: repos.Store},
		store:       repos.Store,
	}
}

var _ portssvc.SystemSvc = (*systemService)(nil)

func (s *systemService) ClearAllData(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		s.LogError(ctx, err, "Failed to clear database")
		return err
	}
	s.Persist(ctx)
	s.LogInfo(ctx, "All data cleared")
	return nil
}

func (s *systemService) Persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Persist(ctx)
}
