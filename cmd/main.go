package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/snaplink-io/snaplink/internal/config"
	"github.com/snaplink-io/snaplink/internal/handler"
	"github.com/snaplink-io/snaplink/internal/logger"
	"github.com/snaplink-io/snaplink/internal/metrics"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
	"github.com/snaplink-io/snaplink/internal/service"
	"github.com/snaplink-io/snaplink/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		FilePath: cfg.Log.FilePath,
		MaxSize:  cfg.Log.MaxSize,
		MaxAge:   cfg.Log.MaxAge,
		Level:    cfg.Log.Level,
		AppName:  "snaplink",
	})
	defer log.Sync()

	// Единственное разделяемое состояние живет во внешнем хранилище.
	// Отсутствие url/token - фатальная ошибка конфигурации.
	redisClient, err := store.Connect(store.Config{
		URL:       cfg.Redis.URL,
		Token:     cfg.Redis.Token,
		Namespace: cfg.Redis.Namespace,
	})
	if err != nil {
		log.Fatal("failed to connect to store", zap.Error(err))
	}
	defer redisClient.Close()

	log.Info("connected to store")

	linkStore := store.NewRedisStore(redisClient, cfg.Redis.Namespace)
	limiter := ratelimit.NewLimiter(
		redisClient,
		cfg.Redis.Namespace,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		cfg.RateLimit.MaxRequests,
	)

	m := metrics.New(prometheus.DefaultRegisterer)

	linkService := service.NewLinkService(linkStore, cfg.GetBaseURL())
	linkHandler := handler.NewLinkHandler(linkService, m, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetAllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := linkStore.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"store":  "unhealthy",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"store":  "healthy",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/shorten", handler.RateLimit(limiter, m, log), linkHandler.Shorten)
		api.GET("/stats", linkHandler.Stats)
	}

	router.GET("/r/:code", linkHandler.Resolve)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.GetServerAddress()))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
