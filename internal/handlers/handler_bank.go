package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankHandler handles HTTP requests related to banks and their fiscal years.
type bankHandler struct {
	bankService   portssvc.BankSvcFacade
	schemaService portssvc.SchemaSvc
}

// newBankHandler creates a new bankHandler.
func newBankHandler(bs portssvc.BankSvcFacade, ss portssvc.SchemaSvc) *bankHandler {
	return &bankHandler{
		bankService:   bs,
		schemaService: ss,
	}
}

// registerBankRoutes registers the bank collection routes.
func registerBankRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade, schemaService portssvc.SchemaSvc) {
	h := newBankHandler(bankService, schemaService)

	banks := rg.Group("/banks")
	{
		banks.POST("", h.createBank)
		banks.GET("", h.listBanks)
		banks.GET("/:bankID", h.getBank)
		banks.PUT("/:bankID", h.updateBank)
		banks.DELETE("/:bankID", h.deleteBank)
		banks.GET("/:bankID/years", h.listYears)
	}
}

// registerSchemaRoutes registers scope preparation routes on the scope group.
func registerSchemaRoutes(scoped *gin.RouterGroup, bankService portssvc.BankSvcFacade, schemaService portssvc.SchemaSvc) {
	h := newBankHandler(bankService, schemaService)

	scoped.POST("/setup", h.setupScope)
	scoped.POST("/reset", h.resetScope)
}

// createBank godoc
// @Summary Create a bank
// @Description Creates a bank that owns fiscal year ledgers
// @Tags banks
// @Accept json
// @Produce json
// @Param bank body dto.CreateBankRequest true "Bank details"
// @Success 201 {object} dto.BankResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create bank"
// @Security BearerAuth
// @Router /banks [post]
func (h *bankHandler) createBank(c *gin.Context) {
	var req dto.CreateBankRequest
	if !bindJSON(c, &req) {
		return
	}

	bank, err := h.bankService.CreateBank(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create bank")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bank created", slog.Int64("bank_id", bank.BankID))
	c.JSON(http.StatusCreated, dto.ToBankResponse(bank))
}

// listBanks godoc
// @Summary List banks
// @Tags banks
// @Produce json
// @Success 200 {object} dto.ListBanksResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list banks"
// @Security BearerAuth
// @Router /banks [get]
func (h *bankHandler) listBanks(c *gin.Context) {
	banks, err := h.bankService.ListBanks(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list banks")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBanksResponse(banks))
}

// getBank godoc
// @Summary Get a bank
// @Tags banks
// @Produce json
// @Param bankID path int true "Bank ID"
// @Success 200 {object} dto.BankResponse
// @Failure 404 {object} map[string]string "Bank not found"
// @Security BearerAuth
// @Router /banks/{bankID} [get]
func (h *bankHandler) getBank(c *gin.Context) {
	bankID, ok := parseIDParam(c, "bankID")
	if !ok {
		return
	}

	bank, err := h.bankService.GetBankByID(c.Request.Context(), bankID)
	if err != nil {
		respondError(c, err, "Failed to retrieve bank")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankResponse(bank))
}

// updateBank godoc
// @Summary Update a bank
// @Tags banks
// @Accept json
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param bank body dto.UpdateBankRequest true "Fields to update"
// @Success 200 {object} dto.BankResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Bank not found"
// @Security BearerAuth
// @Router /banks/{bankID} [put]
func (h *bankHandler) updateBank(c *gin.Context) {
	bankID, ok := parseIDParam(c, "bankID")
	if !ok {
		return
	}
	var req dto.UpdateBankRequest
	if !bindJSON(c, &req) {
		return
	}

	bank, err := h.bankService.UpdateBank(c.Request.Context(), bankID, req)
	if err != nil {
		respondError(c, err, "Failed to update bank")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankResponse(bank))
}

// deleteBank godoc
// @Summary Delete a bank
// @Description Deletes the bank together with every fiscal year it owns
// @Tags banks
// @Param bankID path int true "Bank ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Bank not found"
// @Security BearerAuth
// @Router /banks/{bankID} [delete]
func (h *bankHandler) deleteBank(c *gin.Context) {
	bankID, ok := parseIDParam(c, "bankID")
	if !ok {
		return
	}

	if err := h.bankService.DeleteBank(c.Request.Context(), bankID); err != nil {
		respondError(c, err, "Failed to delete bank")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bank deleted", slog.Int64("bank_id", bankID))
	c.Status(http.StatusNoContent)
}

// listYears godoc
// @Summary List fiscal years of a bank
// @Tags banks
// @Produce json
// @Param bankID path int true "Bank ID"
// @Success 200 {object} dto.YearsResponse
// @Failure 404 {object} map[string]string "Bank not found"
// @Security BearerAuth
// @Router /banks/{bankID}/years [get]
func (h *bankHandler) listYears(c *gin.Context) {
	bankID, ok := parseIDParam(c, "bankID")
	if !ok {
		return
	}

	years, err := h.bankService.ListYears(c.Request.Context(), bankID)
	if err != nil {
		respondError(c, err, "Failed to list years")
		return
	}
	c.JSON(http.StatusOK, dto.YearsResponse{BankID: bankID, Years: years})
}

// setupScope godoc
// @Summary Prepare a fiscal year
// @Description Registers the year and seeds the default categories and account. Safe to repeat.
// @Tags schema
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Success 200 {object} dto.SetupResponse
// @Failure 404 {object} map[string]string "Bank not found"
// @Failure 500 {object} map[string]string "Failed to set up year"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/setup [post]
func (h *bankHandler) setupScope(c *gin.Context) {
	scope := scopeFromCtx(c)

	seed, err := h.schemaService.Setup(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err, "Failed to set up year")
		return
	}
	c.JSON(http.StatusOK, dto.SetupResponse{Scope: scope, Seed: *seed})
}

// resetScope godoc
// @Summary Reset a fiscal year
// @Description Deletes every account, category and transaction of the year and seeds the defaults again
// @Tags schema
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Success 200 {object} dto.SetupResponse
// @Failure 404 {object} map[string]string "Bank not found"
// @Failure 500 {object} map[string]string "Failed to reset year"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/reset [post]
func (h *bankHandler) resetScope(c *gin.Context) {
	scope := scopeFromCtx(c)

	seed, err := h.schemaService.Reset(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err, "Failed to reset year")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Fiscal year reset")
	c.JSON(http.StatusOK, dto.SetupResponse{Scope: scope, Seed: *seed})
}
