package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

const scopeKey = "ledgerScope"

// scopeMiddleware parses :bankID and :year once for the whole scope group.
func scopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())

		bankID, err := strconv.ParseInt(c.Param("bankID"), 10, 64)
		if err != nil {
			logger.Warn("Invalid bank ID in path", slog.String("bank_id", c.Param("bankID")))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bank ID"})
			return
		}
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil {
			logger.Warn("Invalid year in path", slog.String("year", c.Param("year")))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}

		scope := domain.Scope{BankID: bankID, Year: year}
		if err := scope.Validate(); err != nil {
			logger.Warn("Invalid scope in path", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		enriched := logger.With(slog.Int64("bank_id", bankID), slog.Int("year", year))
		c.Request = c.Request.WithContext(middleware.WithLogger(c.Request.Context(), enriched))
		c.Set(scopeKey, scope)
		c.Next()
	}
}

// scopeFromCtx returns the scope stored by scopeMiddleware.
func scopeFromCtx(c *gin.Context) domain.Scope {
	scope, _ := c.MustGet(scopeKey).(domain.Scope)
	return scope
}

// parseIDParam reads a positive integer path parameter, answering 400 when it is not one.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid ID in path", slog.String("param", name), slog.String("value", c.Param(name)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError writes err with the status its sentinel maps to. Server-side
// failures are logged in full and answered with fallback only.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON binds the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// bindQuery binds query parameters, answering 400 on failure.
func bindQuery(c *gin.Context, params any) bool {
	if err := c.ShouldBindQuery(params); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return false
	}
	return true
}
