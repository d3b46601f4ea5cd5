package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

// categoryService implements the CategorySvcFacade interface
type categoryService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	categoryRepo portsrepo.CategoryRepositoryFacade
	schema       portssvc.SchemaSvc
	locker       *ScopeLocker
}

// NewCategoryService creates a category service.
func NewCategoryService(repos portsrepo.RepositoryProvider, schema portssvc.SchemaSvc, locker *ScopeLocker) portssvc.CategorySvcFacade {
	return &categoryService{
		BaseService:  BaseService{Persister: repos.Store},
		txManager:    repos.TxManager,
		categoryRepo: repos.CategoryRepo,
		schema:       schema,
		locker:       locker,
	}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// checkUnique fails with ErrDuplicate when another category already uses (name, type).
func (s *categoryService) checkUnique(ctx context.Context, scope domain.Scope, name string, categoryType domain.CategoryType, selfID int64) error {
	existing, err := s.categoryRepo.FindCategoryByName(ctx, scope, name, categoryType)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.CategoryID != selfID:
		return fmt.Errorf("%w: %s category %q already exists", apperrors.ErrDuplicate, categoryType, name)
	}
	return nil
}

func (s *categoryService) checkParent(ctx context.Context, scope domain.Scope, parentID int64, categoryType domain.CategoryType, selfID int64) error {
	if parentID == selfID {
		return fmt.Errorf("%w: a category cannot be its own parent", apperrors.ErrValidation)
	}
	parent, err := s.categoryRepo.FindCategoryByID(ctx, scope, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent category %d not found in %s", apperrors.ErrValidation, parentID, scope)
		}
		return err
	}
	if parent.CategoryType != categoryType {
		return fmt.Errorf("%w: parent category must also be %s", apperrors.ErrValidation, categoryType)
	}
	return nil
}

func (s *categoryService) CreateCategory(ctx context.Context, scope domain.Scope, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}
	if !req.CategoryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown category type %q", apperrors.ErrValidation, req.CategoryType)
	}

	ts := now()
	category := domain.Category{
		BankID:           scope.BankID,
		Year:             scope.Year,
		Name:             name,
		CategoryType:     req.CategoryType,
		ParentCategoryID: req.ParentCategoryID,
		ColorCode:        req.ColorCode,
		Icon:             req.Icon,
		AuditFields:      domain.AuditFields{CreatedAt: ts, UpdatedAt: ts},
	}

	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.schema.Prepare(ctx, scope); err != nil {
			return err
		}
		if err := s.checkUnique(ctx, scope, name, req.CategoryType, 0); err != nil {
			return err
		}
		if req.ParentCategoryID != nil {
			if err := s.checkParent(ctx, scope, *req.ParentCategoryID, req.CategoryType, 0); err != nil {
				return err
			}
		}
		id, err := s.categoryRepo.SaveCategory(ctx, category)
		if err != nil {
			return err
		}
		category.CategoryID = id
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to create category", slog.String("name", name))
		}
		return nil, err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Category created", append(scopeAttrs(scope), slog.Int64("category_id", category.CategoryID))...)
	return &category, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, scope domain.Scope, categoryID int64) (*domain.Category, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, scope, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category", slog.Int64("category_id", categoryID))
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, scope domain.Scope, categoryType *domain.CategoryType) ([]domain.Category, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategories(ctx, scope, categoryType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", scopeAttrs(scope)...)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, scope domain.Scope, categoryID int64, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	var category *domain.Category
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		category, err = s.categoryRepo.FindCategoryByID(ctx, scope, categoryID)
		if err != nil {
			return err
		}

		name := category.Name
		if req.Name != nil {
			name = strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: category name cannot be empty", apperrors.ErrValidation)
			}
		}
		categoryType := category.CategoryType
		if req.CategoryType != nil {
			if !req.CategoryType.IsValid() {
				return fmt.Errorf("%w: unknown category type %q", apperrors.ErrValidation, *req.CategoryType)
			}
			categoryType = *req.CategoryType
		}

		renamed := name != category.Name
		retyped := categoryType != category.CategoryType
		if category.IsDefault && (renamed || retyped) {
			return fmt.Errorf("%w: default categories cannot be renamed or retyped", apperrors.ErrConstraint)
		}
		if renamed || retyped {
			if err := s.checkUnique(ctx, scope, name, categoryType, categoryID); err != nil {
				return err
			}
		}
		if retyped {
			refs, err := s.categoryRepo.CountCategoryReferences(ctx, categoryID)
			if err != nil {
				return err
			}
			if refs > 0 {
				return fmt.Errorf("%w: category %d is used by %d transactions and cannot change type", apperrors.ErrConstraint, categoryID, refs)
			}
		}

		switch {
		case req.ClearParent:
			category.ParentCategoryID = nil
		case req.ParentCategoryID != nil:
			if err := s.checkParent(ctx, scope, *req.ParentCategoryID, categoryType, categoryID); err != nil {
				return err
			}
			category.ParentCategoryID = req.ParentCategoryID
		}

		category.Name = name
		category.CategoryType = categoryType
		if req.ColorCode != nil {
			category.ColorCode = *req.ColorCode
		}
		if req.Icon != nil {
			category.Icon = *req.Icon
		}
		category.UpdatedAt = now()
		return s.categoryRepo.UpdateCategory(ctx, *category)
	})
	if err != nil {
		s.LogDebug(ctx, "Category update rejected", slog.Int64("category_id", categoryID), slog.String("error", err.Error()))
		return nil, err
	}
	s.Persist(ctx)
	return category, nil
}

// DeleteCategory removes an unreferenced, non-default category. Its
// subcategories lose their parent link.
func (s *categoryService) DeleteCategory(ctx context.Context, scope domain.Scope, categoryID int64) error {
	if err := s.ValidateScope(scope); err != nil {
		return err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		category, err := s.categoryRepo.FindCategoryByID(ctx, scope, categoryID)
		if err != nil {
			return err
		}
		if category.IsDefault {
			return fmt.Errorf("%w: default category %q cannot be deleted", apperrors.ErrConstraint, category.Name)
		}
		refs, err := s.categoryRepo.CountCategoryReferences(ctx, categoryID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: category %d is used by %d transactions", apperrors.ErrConstraint, categoryID, refs)
		}
		return s.categoryRepo.DeleteCategory(ctx, scope, categoryID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConstraint) {
			s.LogError(ctx, err, "Failed to delete category", slog.Int64("category_id", categoryID))
		}
		return err
	}
	s.Persist(ctx)

	s.LogInfo(ctx, "Category deleted", slog.Int64("category_id", categoryID))
	return nil
}

func (s *categoryService) CleanupDuplicateCategories(ctx context.Context, scope domain.Scope) (*domain.CleanupResult, error) {
	if err := s.ValidateScope(scope); err != nil {
		return nil, err
	}
	ctx, unlock := s.locker.Lock(ctx, scope)
	defer unlock()

	result := &domain.CleanupResult{RemovedCategoryIDs: []int64{}}
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		categories, err := s.categoryRepo.ListCategories(ctx, scope, nil)
		if err != nil {
			return err
		}

		groups := make(map[domain.CategoryKey][]domain.Category)
		order := make([]domain.CategoryKey, 0)
		for _, c := range categories {
			key := c.Key()
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], c)
		}

		ts := now()
		for _, key := range order {
			group := groups[key]
			if len(group) < 2 {
				continue
			}
			sort.Slice(group, func(i, j int) bool { return group[i].CategoryID < group[j].CategoryID })
			canonical := group[0]
			anyDefault := canonical.IsDefault

			for _, dup := range group[1:] {
				moved, err := s.categoryRepo.ReassignCategory(ctx, dup.CategoryID, canonical.CategoryID, ts)
				if err != nil {
					return err
				}
				if err := s.categoryRepo.DeleteCategory(ctx, scope, dup.CategoryID); err != nil {
					return err
				}
				anyDefault = anyDefault || dup.IsDefault
				result.TransactionsRepointed += moved
				result.CategoriesRemoved++
				result.RemovedCategoryIDs = append(result.RemovedCategoryIDs, dup.CategoryID)
			}

			if anyDefault && !canonical.IsDefault {
				fresh, err := s.categoryRepo.FindCategoryByID(ctx, scope, canonical.CategoryID)
				if err != nil {
					return err
				}
				fresh.IsDefault = true
				fresh.UpdatedAt = ts
				if err := s.categoryRepo.UpdateCategory(ctx, *fresh); err != nil {
					return err
				}
			}
			result.GroupsMerged++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to clean up duplicate categories", scopeAttrs(scope)...)
		return nil, err
	}
	if result.CategoriesRemoved > 0 {
		s.Persist(ctx)
	}

	s.LogInfo(ctx, "Duplicate categories cleaned up", append(scopeAttrs(scope),
		slog.Int("groups_merged", result.GroupsMerged),
		slog.Int("categories_removed", result.CategoriesRemoved),
		slog.Int64("transactions_repointed", result.TransactionsRepointed))...)
	return result, nil
}
