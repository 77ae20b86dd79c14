package main

import (
	"context"
	"time"

	"github.com/Bedotech/smartbook/internal/api"
	v1 "github.com/Bedotech/smartbook/internal/api/v1"
	"github.com/Bedotech/smartbook/internal/cache"
	"github.com/Bedotech/smartbook/internal/config"
	"github.com/Bedotech/smartbook/internal/domain/citytax"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/postgres"
	"github.com/Bedotech/smartbook/internal/repository"
	"github.com/Bedotech/smartbook/internal/service"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/Bedotech/smartbook/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// @title Smartbook City Tax API
// @version 1.0
// @description City Tax (Imposta di Soggiorno) calculation and reporting service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC

	// Local development convenience; absence of a .env file is fine
	_ = godotenv.Load()
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			provideCache,

			// Postgres
			postgres.NewDB,

			// Calculator
			citytax.NewCalculator,

			// Repositories
			repository.NewTaxRuleRepository,
			repository.NewBookingRepository,
			repository.NewGuestRepository,

			// Services
			service.NewServiceParams,
			service.NewTaxService,
			service.NewReportingService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideCache(cfg *config.Configuration) cache.Cache {
	return cache.NewInMemoryCache(cfg.Cache.Enabled)
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	taxService service.TaxService,
	reportingService service.ReportingService,
) api.Handlers {
	return api.Handlers{
		Health: v1.NewHealthHandler(logger),
		Tax:    v1.NewTaxHandler(taxService, logger),
		Report: v1.NewReportHandler(reportingService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	return api.NewRouter(handlers, cfg)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
