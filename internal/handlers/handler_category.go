package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

// categoryHandler handles HTTP requests related to categories.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func newCategoryHandler(cs portssvc.CategorySvcFacade) *categoryHandler {
	return &categoryHandler{categoryService: cs}
}

// registerCategoryRoutes registers routes related to categories.
func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := newCategoryHandler(categoryService)

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.GET("/:categoryID", h.getCategory)
		categories.PUT("/:categoryID", h.updateCategory)
		categories.DELETE("/:categoryID", h.deleteCategory)
		categories.POST("/cleanup-duplicates", h.cleanupDuplicates)
	}
}

// createCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Param category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Category already exists"
// @Failure 500 {object} map[string]string "Failed to create category"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), scopeFromCtx(c), req)
	if err != nil {
		respondError(c, err, "Failed to create category")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Category created", slog.Int64("category_id", category.CategoryID))
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Param type query string false "Filter by type" Enums(expense, income)
// @Success 200 {object} dto.ListCategoriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list categories"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	var params dto.ListCategoriesParams
	if !bindQuery(c, &params) {
		return
	}

	var categoryType *domain.CategoryType
	if params.Type != "" {
		t := domain.CategoryType(params.Type)
		categoryType = &t
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), scopeFromCtx(c), categoryType)
	if err != nil {
		respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoriesResponse(categories))
}

// getCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Param categoryID path int true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/categories/{categoryID} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), scopeFromCtx(c), categoryID)
	if err != nil {
		respondError(c, err, "Failed to retrieve category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// updateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Param categoryID path int true "Category ID"
// @Param category body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 409 {object} map[string]string "Update would break a category rule"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/categories/{categoryID} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), scopeFromCtx(c), categoryID, req)
	if err != nil {
		respondError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// deleteCategory godoc
// @Summary Delete a category
// @Description Deletes a category that is not a default, has no children and no transactions
// @Tags categories
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Param categoryID path int true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 409 {object} map[string]string "Category is protected or still referenced"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/categories/{categoryID} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), scopeFromCtx(c), categoryID); err != nil {
		respondError(c, err, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

// cleanupDuplicates godoc
// @Summary Merge duplicate categories
// @Description Merges categories sharing a name and type into the oldest one and repoints their transactions
// @Tags categories
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Success 200 {object} domain.CleanupResult
// @Failure 500 {object} map[string]string "Failed to clean up categories"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/categories/cleanup-duplicates [post]
func (h *categoryHandler) cleanupDuplicates(c *gin.Context) {
	result, err := h.categoryService.CleanupDuplicateCategories(c.Request.Context(), scopeFromCtx(c))
	if err != nil {
		respondError(c, err, "Failed to clean up categories")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Duplicate categories merged",
		slog.Int("groups", result.GroupsMerged), slog.Int("removed", result.CategoriesRemoved))
	c.JSON(http.StatusOK, result)
}
