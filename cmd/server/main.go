// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"

	"github.com/dealernetworks/opsboard-backend/internal/api"
	"github.com/dealernetworks/opsboard-backend/internal/cache"
	"github.com/dealernetworks/opsboard-backend/internal/config"
	"github.com/dealernetworks/opsboard-backend/internal/ingest"
	"github.com/dealernetworks/opsboard-backend/internal/planner"
	"github.com/dealernetworks/opsboard-backend/internal/repository/postgres"
	"github.com/dealernetworks/opsboard-backend/internal/service"
	"github.com/dealernetworks/opsboard-backend/internal/snapshot"
	"github.com/dealernetworks/opsboard-backend/internal/storage"
	"github.com/dealernetworks/opsboard-backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	configRepo := postgres.NewConfigRepository(db)

	outlookCache, err := cache.NewOutlookCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, running without it")
		outlookCache = cache.NewNoopOutlookCache()
	}

	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		s3, err := storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Archive unavailable, reports will not be stored")
		} else {
			archive = s3
		}
	}

	plannerCfg := planner.DefaultConfig()
	plannerCfg.HorizonAnchor = cfg.Planner.HorizonAnchor()
	plannerCfg.HorizonOffsetMonths = cfg.Planner.HorizonOffsetMonths
	plannerCfg.HorizonMonths = cfg.Planner.HorizonMonths
	plannerCfg.ArrivalLeadDays = cfg.Planner.ArrivalLeadDays

	hub := snapshot.NewHub()
	outlookService := service.NewOutlookService(hub, configRepo, outlookCache, archive, cfg.Archive.Prefix, plannerCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := outlookService.WarmLoad(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration store")
	}
	go outlookService.Run(ctx)

	router := api.NewRouter(&api.Services{
		OutlookService: outlookService,
		ConfigRepo:     configRepo,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// The ingest listener shares the hub with the planner, so it lives in
	// the same process on its own port.
	ingestRouter := mux.NewRouter()
	ingest.NewHandler(hub).RegisterRoutes(ingestRouter)
	ingestSrv := &http.Server{
		Addr:    ":" + cfg.Ingest.Port,
		Handler: ingestRouter,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()
	go func() {
		logger.Log.Info().Str("port", cfg.Ingest.Port).Msg("Starting ingest listener")
		if err := ingestSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start ingest listener")
		}
	}()

	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ingestSrv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Ingest listener forced to shutdown")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
