package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

// unlockRate bounds PIN guesses per client IP.
const unlockRate = "5-M"

// AuthHandler handles PIN unlock and PIN management.
type AuthHandler struct {
	authService portssvc.AuthSvc
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AuthSvc) *AuthHandler {
	return &AuthHandler{authService: as}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, authService portssvc.AuthSvc) {
	h := NewAuthHandler(authService)

	rate, _ := limiter.NewRateFromFormatted(unlockRate)
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.GET("/status", h.Status)
		auth.POST("/unlock", limitMiddleware, h.Unlock)
	}
}

// registerPINRoutes sets up PIN management on the protected group.
func registerPINRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvc) {
	h := NewAuthHandler(authService)

	rg.PUT("/auth/pin", h.SetPIN)
	rg.DELETE("/auth/pin", h.ClearPIN)
}

// Status godoc
// @Summary Authentication status
// @Description Tells whether a PIN is set and requests need a session token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AuthStatusResponse
// @Failure 500 {object} map[string]string
// @Router /auth/status [get]
func (h *AuthHandler) Status(c *gin.Context) {
	required, err := h.authService.PINRequired(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to read authentication state")
		return
	}
	c.JSON(http.StatusOK, dto.AuthStatusResponse{PINRequired: required})
}

// Unlock godoc
// @Summary Unlock with PIN
// @Description Checks the PIN and returns a session token for the Authorization header
// @Tags auth
// @Accept json
// @Produce json
// @Param unlock body dto.UnlockRequest true "PIN"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string "No PIN is set"
// @Failure 401 {object} map[string]string "Wrong PIN"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Failure 500 {object} map[string]string
// @Router /auth/unlock [post]
func (h *AuthHandler) Unlock(c *gin.Context) {
	var req dto.UnlockRequest
	if !bindJSON(c, &req) {
		return
	}

	token, expiresAt, err := h.authService.Unlock(c.Request.Context(), req.PIN)
	if err != nil {
		respondError(c, err, "Failed to unlock")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Session unlocked", slog.Time("expires_at", expiresAt))
	c.JSON(http.StatusOK, dto.AuthResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

// SetPIN godoc
// @Summary Set or change the PIN
// @Tags auth
// @Accept json
// @Param pin body dto.SetPINRequest true "Current and new PIN"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "PIN too weak"
// @Failure 401 {object} map[string]string "Current PIN does not match"
// @Security BearerAuth
// @Router /auth/pin [put]
func (h *AuthHandler) SetPIN(c *gin.Context) {
	var req dto.SetPINRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.SetPIN(c.Request.Context(), req.CurrentPIN, req.NewPIN); err != nil {
		respondError(c, err, "Failed to set PIN")
		return
	}

	subject, _ := middleware.GetUserIDFromContext(c)
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("PIN set", slog.Bool("had_session", subject != ""))
	c.Status(http.StatusNoContent)
}

// ClearPIN godoc
// @Summary Remove the PIN
// @Tags auth
// @Accept json
// @Param pin body dto.ClearPINRequest true "Current PIN"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Current PIN does not match"
// @Security BearerAuth
// @Router /auth/pin [delete]
func (h *AuthHandler) ClearPIN(c *gin.Context) {
	var req dto.ClearPINRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ClearPIN(c.Request.Context(), req.CurrentPIN); err != nil {
		respondError(c, err, "Failed to clear PIN")
		return
	}

	subject, _ := middleware.GetUserIDFromContext(c)
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("PIN cleared", slog.Bool("had_session", subject != ""))
	c.Status(http.StatusNoContent)
}
