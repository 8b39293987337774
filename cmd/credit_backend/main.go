package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/adapters/ledger/gateway"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/adapters/locking"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	portslocking "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/locking"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/handlers"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/jobs"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/metrics"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/observability"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/platform/config"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/repositories/database/pgsql"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/analytics"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// @title Credit Ledger Backend API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := "development"
	if cfg.IsProduction {
		env = "production"
	}
	flushSentry, err := observability.InitSentry(cfg.SentryDSN, env, cfg.Release)
	if err != nil {
		logger.Warn("Sentry disabled", slog.String("error", err.Error()))
	}
	defer flushSentry()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool, logger)

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = locking.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	ledgerClient := gateway.NewClient(gateway.Config{
		BaseURL:             cfg.LedgerGatewayURL,
		Token:               cfg.LedgerGatewayToken,
		RequestTimeout:      cfg.LedgerRequestTimeout,
		ConfirmationTimeout: cfg.LedgerConfirmationTimeout,
		PollInterval:        cfg.LedgerPollInterval,
	}, logger)

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, ledgerClient, newLocker(cfg, redisClient, logger), escalateToSentry)

	runner := jobs.New(ctx, logger)
	sweeper := jobs.NewReconcileSweeper(repos.CreditRequestRepo, container.Approval, cfg.LedgerConfirmationTimeout, logger)
	if err := runner.Schedule(cfg.ReconcileSchedule, jobs.ReconcileJobName, sweeper.Run); err != nil {
		logger.Error("Failed to schedule reconciliation", slog.String("error", err.Error()))
		os.Exit(1)
	}
	runner.Start()

	tracker := analytics.NewTracker(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer tracker.Close()

	rateLimiter, err := newRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		metrics.GinMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(rateLimiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, tracker, dbHealth(cfg, dbPool))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	// in-flight approvals may be awaiting the ledger
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.LedgerConfirmationTimeout+10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	runner.Stop(shutdownCtx)
}

func newLocker(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) portslocking.RequestLocker {
	if redisClient == nil {
		logger.Warn("REDIS_URL not set, using in-process request locks; run a single replica")
		return locking.NewKeyedMutex()
	}
	return locking.NewRedisLocker(redisClient, cfg.ApprovalLockTTL, logger)
}

func newRateLimiter(formatted string, redisClient *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}
	store, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "creditledger_limiter"})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

func dbHealth(cfg *config.Config, pool *pgxpool.Pool) handlers.HealthChecker {
	if !cfg.EnableDBCheck {
		return nil
	}
	return func(ctx context.Context) error {
		d, err := database.Ping(ctx, pool)
		if err != nil {
			return err
		}
		metrics.ObserveDBPing(d)
		return nil
	}
}

// escalateToSentry reports approvals that need an operator.
func escalateToSentry(ctx context.Context, req *domain.CreditRequest, err error) {
	kind := "reconciliation_required"
	if errors.Is(err, apperrors.ErrDataCorruption) && !errors.Is(err, apperrors.ErrReconciliationRequired) {
		kind = "data_corruption"
	}
	middleware.GetLoggerFromCtx(ctx).Error("Escalating credit request to operators",
		slog.String("credit_request_id", req.CreditRequestID),
		slog.String("kind", kind),
		slog.String("error", err.Error()))
	observability.CaptureWithTags(err, map[string]string{
		"credit_request_id": req.CreditRequestID,
		"student_id":        req.StudentID,
		"kind":              kind,
	})
}
