package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/covox/callaudit/cmd/bootstrap"
	"github.com/covox/callaudit/internal/handler"
	"github.com/covox/callaudit/internal/task"
	"github.com/covox/callaudit/pkg/config"
	"github.com/covox/callaudit/pkg/logger"
	"github.com/covox/callaudit/pkg/metrics"
	"github.com/covox/callaudit/pkg/middleware"
	stores "github.com/covox/callaudit/pkg/storage"
	"github.com/covox/callaudit/pkg/transcriber"
	"github.com/covox/callaudit/pkg/utils"
)

func main() {
	initSQL := flag.String("init-sql", "", "path to SQL file executed before migration")
	skipSeed := flag.Bool("no-seed", false, "skip development seed data")
	flag.Parse()

	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	if err := logger.Init(&cfg.Log, cfg.Mode); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := bootstrap.SetupDatabase(logger.Writer(), &bootstrap.Options{
		InitSQLPath: *initSQL,
		AutoMigrate: true,
		SeedNonProd: !*skipSeed,
	})
	if err != nil {
		logger.Error("database setup failed", zap.Error(err))
		return
	}
	defer utils.CloseDatabase(db)

	store := stores.NewLocalStore(cfg.UploadDir, cfg.MediaPrefix)

	asr, err := transcriber.New(transcriber.FactoryOptions{
		Provider:      cfg.TranscribeProvider,
		WhisperURL:    cfg.WhisperURL,
		WhisperModel:  cfg.WhisperModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
	})
	if err != nil {
		logger.Error("transcriber setup failed", zap.Error(err))
		return
	}

	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.RedirectTrailingSlash = false
	r.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

	r.Use(sessions.Sessions("callaudit", cookie.NewStore([]byte(cfg.SessionSecret))))
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(logger.Lg))

	rateLimiter, err := middleware.RateLimiterMiddleware(cfg.RateLimit)
	if err != nil {
		logger.Error("rate limiter setup failed", zap.Error(err))
		return
	}
	r.Use(rateLimiter)

	r.GET("/metrics", metrics.Handler())
	r.Static(cfg.MediaPrefix, cfg.UploadDir)

	handler.NewHandlers(db, store, asr).Register(r, cfg.APIPrefix)

	sweeper, err := task.StartOrphanSweeper(db, store, cfg.OrphanSweepSchedule, cfg.OrphanSweepDelete)
	if err != nil {
		logger.Error("orphan sweeper setup failed", zap.Error(err))
		return
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
		// Transcription requests can hold the connection for minutes.
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.Addr),
			zap.String("mode", cfg.Mode),
			zap.String("asr", asr.Vendor()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
