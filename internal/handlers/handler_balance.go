package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

type balanceHandler struct {
	balanceService portssvc.BalanceSvc
}

func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := &balanceHandler{balanceService: balanceService}

	balances := rg.Group("/balances")
	{
		balances.POST("/recalculate", h.recalculate)
		balances.GET("/verify", h.verify)
	}
}

// recalculate godoc
// @Summary Recalculate account balances
// @Description Resets every account to its initial balance and replays all transactions, oldest first
// @Tags balances
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Success 200 {object} domain.RecalculationResult
// @Failure 500 {object} map[string]string "Failed to recalculate balances"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/balances/recalculate [post]
func (h *balanceHandler) recalculate(c *gin.Context) {
	result, err := h.balanceService.RecalculateAccountBalances(c.Request.Context(), scopeFromCtx(c))
	if err != nil {
		respondError(c, err, "Failed to recalculate balances")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Balances recalculated",
		slog.Int("accounts", result.AccountsUpdated), slog.Int("skipped", result.SkippedTransactions))
	c.JSON(http.StatusOK, result)
}

// verify godoc
// @Summary Verify account balances
// @Description Compares stored balances with the ones derived from transactions without changing anything
// @Tags balances
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Success 200 {object} domain.BalanceVerification
// @Failure 500 {object} map[string]string "Failed to verify balances"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/balances/verify [get]
func (h *balanceHandler) verify(c *gin.Context) {
	report, err := h.balanceService.VerifyBalances(c.Request.Context(), scopeFromCtx(c))
	if err != nil {
		respondError(c, err, "Failed to verify balances")
		return
	}
	c.JSON(http.StatusOK, report)
}
