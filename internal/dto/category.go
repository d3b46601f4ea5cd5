package dto

import (
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name             string              `json:"name" binding:"required,max=100"`
	CategoryType     domain.CategoryType `json:"categoryType" binding:"required,oneof=expense income"`
	ParentCategoryID *int64              `json:"parentCategoryId" binding:"omitempty,gt=0"`
	ColorCode        string              `json:"colorCode" binding:"max=20"`
	Icon             string              `json:"icon" binding:"max=50"`
}

// UpdateCategoryRequest defines the editable fields of a category.
type UpdateCategoryRequest struct {
	Name             *string              `json:"name" binding:"omitempty,min=1,max=100"`
	CategoryType     *domain.CategoryType `json:"categoryType" binding:"omitempty,oneof=expense income"`
	ParentCategoryID *int64               `json:"parentCategoryId" binding:"omitempty,gt=0"`
	ClearParent      bool                 `json:"clearParent"` // removes the parent link
	ColorCode        *string              `json:"colorCode" binding:"omitempty,max=20"`
	Icon             *string              `json:"icon" binding:"omitempty,max=50"`
}

// ListCategoriesParams defines query parameters for listing categories.
type ListCategoriesParams struct {
	Type string `form:"type" binding:"omitempty,oneof=expense income"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID       int64               `json:"categoryId"`
	BankID           int64               `json:"bankId"`
	Year             int                 `json:"year"`
	Name             string              `json:"name"`
	CategoryType     domain.CategoryType `json:"categoryType"`
	ParentCategoryID *int64              `json:"parentCategoryId,omitempty"`
	ColorCode        string              `json:"colorCode"`
	Icon             string              `json:"icon"`
	IsDefault        bool                `json:"isDefault"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:       c.CategoryID,
		BankID:           c.BankID,
		Year:             c.Year,
		Name:             c.Name,
		CategoryType:     c.CategoryType,
		ParentCategoryID: c.ParentCategoryID,
		ColorCode:        c.ColorCode,
		Icon:             c.Icon,
		IsDefault:        c.IsDefault,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ListCategoriesResponse wraps the list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToListCategoriesResponse converts categories to their list response.
func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	res := ListCategoriesResponse{Categories: make([]CategoryResponse, len(categories))}
	for i, c := range categories {
		res.Categories[i] = ToCategoryResponse(&c)
	}
	return res
}
