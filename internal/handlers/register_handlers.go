package handlers

import (
	"github.com/1rushikeshkale/MCAC11BlockchainProject/cmd/docs"
	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/metrics"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/platform/config"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/analytics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	tracker *analytics.Tracker,
	health HealthChecker,
) {
	registerValidators()

	r.GET("/health", getHealth(health))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	verify := r.Group("/api/v1/verify")
	registerVerifyRoutes(verify, services.Verification)

	setupAPIV1Routes(r, cfg, services, tracker)
	setupSwaggerRoutes(r, cfg)
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

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	tracker *analytics.Tracker,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer), middleware.AnalyticsMiddleware(tracker))

	v1.GET("", getHome)
	registerStudentRoutes(v1, services.Student, services.CreditRequest)
	registerCreditRoutes(v1, services.CreditRequest, services.Approval, tracker)
	registerLedgerRoutes(v1, services.Ledger, services.Student)
}
