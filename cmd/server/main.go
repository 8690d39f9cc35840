package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"podium/docs"
	"podium/internal/auth"
	"podium/internal/cache"
	"podium/internal/config"
	"podium/internal/db"
	"podium/internal/handler"
	"podium/internal/repository"
	"podium/internal/router"
	"podium/internal/service"
)

// @title Podium API
// @version 1.0
// @description Corporate ride dispatch: identity, tenant isolation and dashboards.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database init", "error", err)
		os.Exit(1)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Error("reset database", "error", err)
			os.Exit(1)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "podium", logger)
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, pricing cache disabled until it answers", "addr", cfg.RedisAddr, "error", err)
	}
	cancel()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	companyRepo := repository.NewCompanyRepository(gormDB)
	costCenterRepo := repository.NewCostCenterRepository(gormDB)
	rideRepo := repository.NewRideRepository(gormDB)
	leadRepo := repository.NewLeadRepository(gormDB)
	pricingRepo := repository.NewPricingRepository(gormDB)

	// Initialize auth components
	tokenCodec, err := auth.NewTokenCodec(cfg.SecretKey, cfg.Algorithm)
	if err != nil {
		logger.Error("token codec", "error", err)
		os.Exit(1)
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	resolver := auth.NewIdentityResolver(tokenCodec, userRepo)
	enforcer := auth.NewSovereigntyEnforcer(logger)

	// Initialize services
	authService := service.NewAuthService(userRepo, companyRepo, costCenterRepo, hasher, tokenCodec, cfg.AccessTokenTTL, logger)
	userService := service.NewUserService(userRepo, logger)
	pricingService := service.NewPricingService(pricingRepo, cacheClient, logger)
	corporateService := service.NewCorporateService(userRepo, costCenterRepo, rideRepo, enforcer, hasher, pricingService, logger)
	dashboardService := service.NewDashboardService(userRepo, costCenterRepo, rideRepo, enforcer)
	companyService := service.NewCompanyService(companyRepo, logger)
	leadService := service.NewLeadService(leadRepo, logger)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, logger, resolver, enforcer, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUserHandler(userService),
		Stats:     handler.NewStatsHandler(dashboardService),
		Corporate: handler.NewCorporateHandler(corporateService),
		Companies: handler.NewCompanyHandler(companyService),
		Leads:     handler.NewLeadHandler(leadService),
		Pricing:   handler.NewPricingHandler(pricingService),
	})

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddress(), "swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")
		if err := e.Start(cfg.HTTPAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
