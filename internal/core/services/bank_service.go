package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

// bankService implements the BankSvcFacade interface
type bankService struct {
	BaseService
	txManager portsrepo.TransactionManager
	bankRepo  portsrepo.BankRepositoryFacade
	scopeRepo portsrepo.ScopeRepository
	locker    *ScopeLocker
}

// NewBankService creates a bank service.
func NewBankService(repos portsrepo.RepositoryProvider, locker *ScopeLocker) portssvc.BankSvcFacade {
	return &bankService{
		BaseService: BaseService{Persister: repos.Store},
		txManager:   repos.TxManager,
		bankRepo:    repos.BankRepo,
		scopeRepo:   repos.ScopeRepo,
		locker:      locker,
	}
}

var _ portssvc.BankSvcFacade = (*bankService)(nil)

func (s *bankService) CreateBank(ctx context.Context, req dto.CreateBankRequest) (*domain.Bank, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: bank name is required", apperrors.ErrValidation)
	}
	ts := now()
	bank := domain.Bank{Name: name, Icon: req.Icon, CreatedAt: ts, UpdatedAt: ts}

	id, err := s.bankRepo.SaveBank(ctx, bank)
	if err != nil {
		s.LogError(ctx, err, "Failed to save bank", slog.String("name", name))
		return nil, err
	}
	bank.BankID = id
	s.Persist(ctx)

	s.LogInfo(ctx, "Bank created", slog.Int64("bank_id", id))
	return &bank, nil
}

func (s *bankService) GetBankByID(ctx context.Context, bankID int64) (*domain.Bank, error) {
	bank, err := s.bankRepo.FindBankByID(ctx, bankID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find bank", slog.Int64("bank_id", bankID))
		}
		return nil, err
	}
	return bank, nil
}

func (s *bankService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	banks, err := s.bankRepo.ListBanks(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list banks")
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	if banks == nil {
		return []domain.Bank{}, nil
	}
	return banks, nil
}

func (s *bankService) ListYears(ctx context.Context, bankID int64) ([]int, error) {
	if _, err := s.GetBankByID(ctx, bankID); err != nil {
		return nil, err
	}
	years, err := s.scopeRepo.ListYears(ctx, bankID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list years", slog.Int64("bank_id", bankID))
		return nil, err
	}
	if years == nil {
		return []int{}, nil
	}
	return years, nil
}

func (s *bankService) UpdateBank(ctx context.Context, bankID int64, req dto.UpdateBankRequest) (*domain.Bank, error) {
	bank, err := s.GetBankByID(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: bank name cannot be empty", apperrors.ErrValidation)
		}
		bank.Name = name
	}
	if req.Icon != nil {
		bank.Icon = *req.Icon
	}
	bank.UpdatedAt = now()

	if err := s.bankRepo.UpdateBank(ctx, *bank); err != nil {
		s.LogError(ctx, err, "Failed to update bank", slog.Int64("bank_id", bankID))
		return nil, err
	}
	s.Persist(ctx)
	return bank, nil
}

// DeleteBank locks every scope of the bank before removing it.
func (s *bankService) DeleteBank(ctx context.Context, bankID int64) error {
	years, err := s.ListYears(ctx, bankID)
	if err != nil {
		return err
	}
	scopes := make([]domain.Scope, len(years))
	for i, y := range years {
		scopes[i] = domain.Scope{BankID: bankID, Year: y}
	}
	ctx, unlock := s.locker.LockAll(ctx, scopes)
	defer unlock()

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.bankRepo.DeleteBank(ctx, bankID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete bank", slog.Int64("bank_id", bankID))
		return err
	}
	s.Persist(ctx)
	s.LogInfo(ctx, "Bank deleted", slog.Int64("bank_id", bankID), slog.Int("scopes", len(scopes)))
	return nil
}
