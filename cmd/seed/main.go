package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"podium/internal/auth"
	"podium/internal/config"
	"podium/internal/db"
	apperrors "podium/internal/errors"
	"podium/internal/model"
	"podium/internal/repository"
	"podium/internal/service"
)

// adminCreator is the part of AuthService the seed needs.
type adminCreator interface {
	SignupAdmin(ctx context.Context, in service.SignupInput) (*model.User, error)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not read .env", "error", err)
	}

	email := flag.String("email", envOr("SEED_ADMIN_EMAIL", "admin@podium.local"), "admin email")
	name := flag.String("name", envOr("SEED_ADMIN_NAME", "Administrator"), "admin full name")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password (min 6 characters)")
	flag.Parse()

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
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		repository.NewCompanyRepository(gormDB),
		repository.NewCostCenterRepository(gormDB),
		auth.NewPasswordHasher(cfg.BcryptCost),
		nil,
		cfg.AccessTokenTTL,
		logger,
	)

	created, err := seedAdmin(context.Background(), authService, service.SignupInput{
		Email:    *email,
		FullName: *name,
		Password: *password,
	})
	if err != nil {
		logger.Error("seed admin", "error", err)
		os.Exit(1)
	}
	if created {
		logger.Info("admin created", "email", *email)
	} else {
		logger.Info("admin already exists, nothing to do", "email", *email)
	}
}

// seedAdmin creates the admin unless the email is already registered.
func seedAdmin(ctx context.Context, svc adminCreator, in service.SignupInput) (bool, error) {
	if len(in.Password) < 6 {
		return false, errors.New("password must have at least 6 characters")
	}
	if _, err := svc.SignupAdmin(ctx, in); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
