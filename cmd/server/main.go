// @title           NeuroWeave API
// @version         1.0
// @description     Multimodal autism screening: questionnaire, video and gamified risk fusion with therapy planning.
// @BasePath        /
// @securityDefinitions.apikey  ClinicianToken
// @in                          header
// @name                        Authorization
// @description                 Bearer clinician JWT
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/neuroweave/docs"
	"github.com/ZanzyTHEbar/neuroweave/internal/api"
	"github.com/ZanzyTHEbar/neuroweave/internal/cache"
	"github.com/ZanzyTHEbar/neuroweave/internal/chat"
	"github.com/ZanzyTHEbar/neuroweave/internal/config"
	"github.com/ZanzyTHEbar/neuroweave/internal/database"
	"github.com/ZanzyTHEbar/neuroweave/internal/errors"
	"github.com/ZanzyTHEbar/neuroweave/internal/middleware"
	"github.com/ZanzyTHEbar/neuroweave/internal/mlclient"
	"github.com/ZanzyTHEbar/neuroweave/internal/monitoring"
	"github.com/ZanzyTHEbar/neuroweave/internal/ratelimit"
	"github.com/ZanzyTHEbar/neuroweave/internal/resilience"
	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
	"github.com/ZanzyTHEbar/neuroweave/internal/security"
	"github.com/ZanzyTHEbar/neuroweave/internal/video"
)

// app is everything the router needs
type app struct {
	cfg       *config.Config
	logger    *monitoring.Logger
	metrics   *monitoring.Metrics
	health    *resilience.DegradationManager
	breakers  *resilience.CircuitBreakerRegistry
	screening *screening.Service
	limiter   *ratelimit.RateLimiter
	clinician *security.ClinicianAuth
	assistant *chat.Assistant
	stats     map[string]api.StatsFunc
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logging setup
	appLogger := monitoring.NewLogger(monitoring.ParseLevel(cfg.LogLevel))
	slog.SetDefault(appLogger.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer errors.SafeClose(db, "database")

	if cfg.UploadDir != "" {
		if err := os.MkdirAll(cfg.UploadDir, 0o700); err != nil {
			slog.Error("Failed to create upload directory", "dir", cfg.UploadDir, "error", err)
			os.Exit(1)
		}
	}

	appMetrics := monitoring.NewMetrics()
	breakers := resilience.NewCircuitBreakerRegistry()
	health := resilience.NewDegradationManager(resilience.DefaultDegradationConfig())

	models := mlclient.NewClient(mlclient.Config{
		BaseURL:  cfg.ModelServerURL,
		Timeout:  cfg.ModelTimeout,
		Breakers: breakers,
		Health:   health,
		Metrics:  appMetrics,
		Logger:   appLogger,
	})
	health.RegisterService(mlclient.ServiceName, models.Health)

	predictions := cache.NewPredictionCache(models, cfg.PredictionCacheTTL, appMetrics)
	go predictions.Run(ctx, time.Minute)

	sessions := database.NewSessionRepository(db)
	service := screening.NewService(screening.Dependencies{
		Tabular:   predictions,
		Explainer: predictions,
		Images:    models,
		Decoder:   video.NewFFmpegDecoder(cfg.FFmpegPath, cfg.FrameSize),
		Store:     sessions,
		Logger:    appLogger.Logger,
		Workers:   cfg.FrameWorkers,
		OnComplete: func(mode screening.Mode, d time.Duration, err error) {
			appMetrics.RecordScreening(string(mode), err)
			appLogger.ScreeningLogger(string(mode), d, err)
		},
		OnUndeterminable: func(screening.Mode) {
			appMetrics.IncrementUndeterminable()
		},
	})

	redisClient, err := ratelimit.NewRedisClient(ctx, ratelimit.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		slog.Warn("Redis unreachable, upload limits are kept in memory", "error", err)
	}
	defer errors.SafeClose(redisClient, "redis")
	if redisClient.IsEnabled() {
		health.RegisterService("redis", redisClient.HealthCheck)
	}

	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		UploadsPerMin: cfg.RateLimitPerMin,
	}, appMetrics)
	defer limiter.Close()

	assistant := chat.NewAssistant(chat.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Breaker: breakers.GetOrCreate(chat.BreakerName, resilience.DefaultCircuitBreakerConfig()),
		Logger:  appLogger,
	})

	clinician := security.NewClinicianAuth(cfg.ClinicianJWTSecret, cfg.ClinicianTokenTTL)
	if !clinician.Enabled() {
		slog.Warn("CLINICIAN_JWT_SECRET not set, screening history is not protected")
	}

	// Start health checks in background
	go health.StartHealthChecks(ctx)

	r := setupRouter(&app{
		cfg:       cfg,
		logger:    appLogger,
		metrics:   appMetrics,
		health:    health,
		breakers:  breakers,
		screening: service,
		limiter:   limiter,
		clinician: clinician,
		assistant: assistant,
		stats: map[string]api.StatsFunc{
			"database":         db.GetPoolStats,
			"rate_limiter":     limiter.GetStats,
			"prediction_cache": predictions.Stats,
			"sessions": func() map[string]interface{} {
				n, err := sessions.Count(ctx)
				if err != nil {
					return map[string]interface{}{"error": err.Error()}
				}
				return map[string]interface{}{"total": n}
			},
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "model_server", cfg.ModelServerURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	cancel()
	health.GracefulShutdown()

	slog.Info("Server exited")
}

func setupRouter(a *app) *gin.Engine {
	r := gin.New()

	// Monitoring first so every request is counted
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(a.logger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(security.SecurityHeadersMiddleware(a.cfg.EnableHSTS))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", monitoring.RequestIDHeader},
		ExposeHeaders:    []string{monitoring.RequestIDHeader, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	compression := middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig())
	r.Use(compression.Handler())

	stats := map[string]api.StatsFunc{"compression": compression.GetStats}
	for name, fn := range a.stats {
		stats[name] = fn
	}

	api.NewSystemHandler(a.health, a.breakers, a.metrics, stats).RegisterRoutes(r)

	api.NewHandler(a.screening, api.Config{
		UploadDir:      a.cfg.UploadDirectory(),
		MaxUploadBytes: a.cfg.MaxUploadBytes(),
	}).RegisterRoutes(r, api.Middleware{
		UploadLimit: a.limiter.UploadRateLimitMiddleware(),
		Clinician:   a.clinician.Middleware(),
	})

	chat.NewHandler(a.assistant).RegisterRoutes(r)

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
