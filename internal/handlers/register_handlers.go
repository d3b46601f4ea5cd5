package handlers

import (
	"log/slog"
	"time"

	"github.com/SscSPs/ledgerbook/cmd/docs"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/SscSPs/ledgerbook/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const defaultRateLimit = "100-M"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.Use(corsMiddleware(cfg), middleware.RateLimit(newLimiter(cfg.RateLimit)))

	r.GET("/health", getHealth)
	r.GET("/", homeHandler(cfg.AppVersion))

	// Register public authentication routes
	registerAuthRoutes(r, services.Auth)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// Every v1 route needs a session once a PIN is set
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, service.Auth))

	registerPINRoutes(v1, service.Auth)
	registerCurrencyRoutes(v1, service.Currency)
	registerBackupFormatRoutes(v1)
	registerSystemRoutes(v1, service.System, service.Backup)
	registerBankRoutes(v1, service.Bank, service.Schema)

	scoped := v1.Group("/banks/:bankID/years/:year", scopeMiddleware())
	registerSchemaRoutes(scoped, service.Bank, service.Schema)
	registerAccountRoutes(scoped, service.Account)
	registerCategoryRoutes(scoped, service.Category)
	registerTransactionRoutes(scoped, service.Transaction)
	registerBalanceRoutes(scoped, service.Balance)
	registerReportingRoutes(scoped, service.Reporting)
	registerBackupRoutes(scoped, service.Backup, cfg.BackupMaxBytes)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", passphraseHeader},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	return cors.New(corsCfg)
}

// newLimiter builds the per-IP limiter, falling back to defaultRateLimit on a bad format.
func newLimiter(formatted string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT, using default", slog.String("value", formatted), slog.String("default", defaultRateLimit))
		rate, _ = limiter.NewRateFromFormatted(defaultRateLimit)
	}
	return limiter.New(memory.NewStore(), rate)
}
