package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/features/auth"
	"github.com/hqtest/courses-server/internal/features/catalog"
	"github.com/hqtest/courses-server/internal/features/lesson"
	"github.com/hqtest/courses-server/internal/features/lessonview"
	"github.com/hqtest/courses-server/internal/features/product"
	"github.com/hqtest/courses-server/internal/features/productaccess"
	"github.com/hqtest/courses-server/internal/features/stats"
	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/internal/middleware"
	"github.com/hqtest/courses-server/pkg/cache"
	"github.com/hqtest/courses-server/pkg/config"
	"github.com/hqtest/courses-server/pkg/health"
	"github.com/hqtest/courses-server/pkg/metrics"
	httpmw "github.com/hqtest/courses-server/pkg/middleware"
	"github.com/hqtest/courses-server/pkg/request"
	"github.com/hqtest/courses-server/pkg/tracing"
)

const maxRequestBytes = 1 << 20

// NewEngine builds the gin engine with the full middleware stack and every route.
func NewEngine(cfg *config.Config, db *gorm.DB, logger *slog.Logger, cacheClient cache.Client) *gin.Engine {
	engine := gin.New()

	engine.Use(httpmw.Recovery(logger))
	engine.Use(httpmw.RequestID())
	if cfg.Tracing.Enabled {
		engine.Use(tracing.Middleware())
	}
	engine.Use(httpmw.CORS(cfg.AllowedOrigins))
	engine.Use(httpmw.RequestLogger(logger))
	engine.Use(httpmw.SecurityHeaders())
	engine.Use(httpmw.RequestSizeLimit(maxRequestBytes))
	engine.Use(metrics.Middleware())
	engine.Use(request.Handler(logger))

	rateLimiter := httpmw.NewRateLimiter(cacheClient, logger, cfg.RateLimit, time.Minute)
	engine.Use(rateLimiter.Middleware())

	Register(engine, cfg, db, logger, cacheClient)
	return engine
}

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, cfg *config.Config, db *gorm.DB, logger *slog.Logger, cacheClient cache.Client) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, logger, map[string]health.Pinger{"cache": cacheClient})
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)

	engine.GET("/metrics", metrics.Handler())

	if !cfg.IsProduction() {
		engine.GET("/debug/db-stats", healthHandler.DBStats)
	}

	api := engine.Group("/api")

	authMiddleware := middleware.NewAuthMiddleware(db, cfg.JWTSecret, logger)
	authenticated := authMiddleware.Authenticated()
	adminOnly := authMiddleware.AdminOnly()

	authHandler := auth.NewHandler(db, logger, cfg)
	auth.RegisterRoutes(api, authHandler, authenticated)

	userHandler := user.NewHandler(db, logger)
	user.RegisterRoutes(api, userHandler, adminOnly)

	productHandler := product.NewHandler(db, logger)
	product.RegisterRoutes(api, productHandler, adminOnly)

	accessHandler := productaccess.NewHandler(db, logger)
	productaccess.RegisterRoutes(api, accessHandler, adminOnly)

	lessonHandler := lesson.NewHandler(db, logger)
	lesson.RegisterRoutes(api, lessonHandler, adminOnly)

	progressHandler := lessonview.NewHandler(db, logger)
	lessonview.RegisterRoutes(api, progressHandler, authenticated)

	catalogHandler := catalog.NewHandler(db, logger)
	catalog.RegisterRoutes(api, catalogHandler, authenticated)

	statsHandler := stats.NewHandler(db, logger)
	stats.RegisterRoutes(api, statsHandler, adminOnly)
}
