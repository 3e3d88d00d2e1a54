package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/varnamer/api/internal/cache"
	"github.com/varnamer/api/internal/client"
	"github.com/varnamer/api/internal/config"
	"github.com/varnamer/api/internal/database"
	"github.com/varnamer/api/internal/handler"
	"github.com/varnamer/api/internal/limiter"
	"github.com/varnamer/api/internal/middleware"
	"github.com/varnamer/api/internal/scheduler"
	"github.com/varnamer/api/internal/store"
	"github.com/varnamer/api/internal/suggest"
	"github.com/varnamer/api/internal/validator"
)

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis backs the translate cache and the rate limiter (fail-open)
	var responseCache handler.ResponseCache
	var rateLimiter *limiter.Limiter
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
	} else {
		defer redisCache.Close()
		responseCache = redisCache
		rateLimiter = limiter.NewLimiter(limiter.NewRedisCounter(redisCache.Client()))
	}

	mappings := store.NewMappingStore(db)
	activities := store.NewActivityStore(db)

	ragClient := client.NewRAGClient(cfg.RAGWebhookURL, cfg.RAGAPIKey, cfg.RAGTimeout).
		WithRateLimit(cfg.RAGRateLimit, 1)
	suggestService := suggest.NewService(ragClient, suggest.Config{
		MaxRetries: cfg.RAGMaxRetries,
		CacheTTL:   cfg.RAGCacheTTL,
	})

	// Initialize handlers
	translateHandler := handler.NewTranslateHandler(mappings, activities, responseCache, cfg.TranslateCacheTTL)
	dictionaryHandler := handler.NewDictionaryHandler(mappings, responseCache)
	exportHandler := handler.NewExportHandler(mappings)
	limitsHandler := handler.NewLimitsHandler(rateLimiter)
	validateHandler := handler.NewValidateHandler(validator.New(), activities)
	suggestHandler := handler.NewSuggestHandler(suggestService, activities, cfg.RAGMinConfidence)
	activityHandler := handler.NewActivityHandler(activities)
	backupHandler := handler.NewBackupHandler(db, cfg.BackupDir)
	healthHandler := handler.NewHealthHandler(db, mappings, activities, handler.Environment{
		GinMode:     gin.Mode(),
		HasDatabase: cfg.DatabaseURL != "",
		HasRedis:    redisCache != nil,
		HasRag:      cfg.RAGWebhookURL != "",
		HasBackup:   cfg.CronSecret != "",
	})

	// Initialize and start background scheduler if enabled
	var backupScheduler *scheduler.BackupScheduler
	if cfg.SchedulerEnabled {
		backupScheduler = scheduler.NewBackupScheduler(db, scheduler.SchedulerConfig{
			Dir:      cfg.BackupDir,
			Interval: cfg.BackupInterval,
		})
		go backupScheduler.Start(ctx)
		log.Println("Background backup scheduler started")
	}

	// Setup router
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+handler.SessionHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/health", healthHandler.Liveness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scheduler status
	r.GET("/scheduler/status", func(c *gin.Context) {
		if backupScheduler != nil {
			c.JSON(200, backupScheduler.GetStatus())
		} else {
			c.JSON(200, gin.H{"enabled": false, "message": "Scheduler is disabled"})
		}
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/limits", limitsHandler.Get)

		api.GET("/translate", middleware.RateLimit(rateLimiter, limiter.ActionTranslate), translateHandler.Translate)
		api.POST("/validate", middleware.RateLimit(rateLimiter, limiter.ActionValidate), validateHandler.Validate)
		api.POST("/rag/suggest", middleware.RateLimit(rateLimiter, limiter.ActionRAGSuggest), suggestHandler.Suggest)

		// Dictionary
		dictionary := api.Group("/dictionary", middleware.RateLimit(rateLimiter, limiter.ActionDictionary))
		dictionary.POST("/add", dictionaryHandler.Add)
		dictionary.GET("", dictionaryHandler.List)
		dictionary.GET("/export", exportHandler.Export)
		dictionary.DELETE("/:id", dictionaryHandler.Delete)

		// Activity
		api.POST("/activity", activityHandler.Track)
		api.GET("/activity", activityHandler.Stats)

		// Cron
		api.GET("/cron/backup", middleware.CronSecretMiddleware(cfg.CronSecret), backupHandler.Run)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("API server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	if backupScheduler != nil {
		backupScheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: Server shutdown failed: %v", err)
	}
}
