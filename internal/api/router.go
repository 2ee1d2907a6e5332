package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/wms-platform/users-service/docs"
	"github.com/wms-platform/users-service/internal/api/handler"
	"github.com/wms-platform/users-service/internal/api/middleware"
	"github.com/wms-platform/users-service/internal/core/ports"
	"github.com/wms-platform/users-service/internal/core/service"
	"github.com/wms-platform/users-service/internal/core/token"
	"github.com/wms-platform/users-service/internal/infrastructure/config"
	mongodb "github.com/wms-platform/users-service/internal/infrastructure/db/mongo"
	redisdb "github.com/wms-platform/users-service/internal/infrastructure/db/redis"
	"github.com/wms-platform/users-service/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The store connections are created once at process start and injected here;
// there is no package-level state. recorder receives lifecycle audit events
// (typically the queue dispatcher).
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, recorder ports.AuditRecorder) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("users"))

	limiter := redisdb.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	e.Use(middleware.RateLimit(limiter, log))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := service.NewUserService(userRepo, codec, recorder, log, cfg.BcryptCost)

	secureCookie := cfg.Env == "production"
	authHandler := handler.NewAuthHandler(userService, cfg.RefreshTokenTTL, secureCookie)
	userHandler := handler.NewUserHandler(userService)
	authGate := middleware.Auth(codec, userRepo)

	// --- Account lifecycle routes ---
	api := e.Group("/api")
	api.POST("/signIn", authHandler.SignIn)
	api.POST("/signUp", authHandler.SignUp)
	api.POST("/signOut", authHandler.SignOut)
	api.POST("/refresh", authHandler.Refresh)
	api.GET("/user", userHandler.Info, authGate)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
