package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/holomate/backend/config"
	"github.com/holomate/backend/internal/adapters/presence"
	repo "github.com/holomate/backend/internal/adapters/postgres"
	pkglog "github.com/holomate/backend/pkg/log"
)

// App is the shared runtime shell of every service binary: one echo
// server plus whatever backing connections the service opened.
type App struct {
	cfg      *config.Config
	logger   pkglog.Logger
	db       *gorm.DB
	natsConn *nats.Conn
	presence *presence.Tracker
	echo     *echo.Echo
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- a.echo.Start(fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort))
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
	}
	if a.presence != nil {
		_ = a.presence.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger: loggerForGorm(cfg),
	})
	if err != nil {
		return nil, err
	}
	// Startup migration is bounded by the shutdown signal.
	if err := repo.Migrate(db.WithContext(ctx)); err != nil {
		return nil, err
	}
	return db, nil
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func loggerForGorm(cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg.AppEnv == "local" {
		level = logger.Info
	}
	return logger.Default.LogMode(level)
}

// exemptions returns the configured exempt paths both as written and
// prefixed with the API base path, so "/auth/login" covers
// "/api/v1/auth/login" without the operator spelling out both.
func exemptions(cfg *config.Config) []string {
	out := make([]string, 0, 2*len(cfg.ExemptPaths))
	for _, p := range cfg.ExemptPaths {
		out = append(out, p)
		if cfg.HTTPBasePath != "" && cfg.HTTPBasePath != "/" {
			out = append(out, cfg.HTTPBasePath+p)
		}
	}
	return out
}
