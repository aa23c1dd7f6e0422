package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"weatheredge/internal/cache"
	"weatheredge/internal/catalog"
	"weatheredge/internal/classify"
	"weatheredge/internal/client/clob"
	"weatheredge/internal/client/gamma"
	"weatheredge/internal/config"
	cronrunner "weatheredge/internal/cron"
	"weatheredge/internal/enrich"
	"weatheredge/internal/handler"
	"weatheredge/internal/logger"
	"weatheredge/internal/service"
)

func main() {
	cfgPath := os.Getenv("WE_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("WE_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gammaHTTP := &http.Client{Timeout: cfg.Gamma.Timeout}
	gammaClient := gamma.NewClient(gammaHTTP, cfg.Gamma.BaseURL)
	clobHTTP := &http.Client{Timeout: cfg.Clob.Timeout}
	clobClient := clob.NewClient(clobHTTP, cfg.Clob.BaseURL)

	store := cache.NewService(cfg.Cache, nil)
	builder := &catalog.Builder{
		Feed:      gammaClient,
		Cache:     store,
		Logger:    logger,
		PageLimit: cfg.Engine.PageLimit,
	}
	enricher := &enrich.Enricher{
		Books:         clobClient,
		Logger:        logger,
		Concurrency:   cfg.Engine.EnrichConcurrency,
		TargetMovePct: cfg.Engine.TargetMovePct,
	}
	intelService := service.NewIntelService(builder, classify.New(), enricher, store, logger, cfg.Engine)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(requestIDMiddleware())

	healthHandler := &handler.HealthHandler{
		Service:   intelService,
		Env:       cfg.App.Env,
		GammaHost: gammaClient.Host(),
		ClobHost:  clobClient.Host(),
	}
	healthHandler.Register(engine)
	marketsHandler := &handler.MarketsHandler{Service: intelService, Logger: logger}
	marketsHandler.Register(engine)
	catalogHandler := &handler.CatalogHandler{Builder: builder, Logger: logger}
	catalogHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err := cronRunner.Add("catalog_prewarm", cfg.Cron.CatalogPrewarm, func(ctx context.Context) {
			result := builder.Refresh(ctx, "")
			if result.FetchError != "" {
				logger.Warn("catalog prewarm degraded", zap.String("fetch_error", result.FetchError))
				return
			}
			logger.Info("catalog prewarm ok", zap.Int("markets", result.TotalMarkets))
		})
		if err != nil {
			logger.Warn("cron register catalog prewarm failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
