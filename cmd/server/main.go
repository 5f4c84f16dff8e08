package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"

	tasks "github.com/goliatone/go-tasks"
)

func main() {
	cfg, err := tasks.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := buildZap(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	logger := tasks.NewZapLogger(zlog)

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	repo := tasks.NewRepositoryManager(db)
	repo.MustValidate()

	ctx := context.Background()
	if err := repo.CreateTables(ctx); err != nil {
		logger.Error("create tables", "error", err)
		os.Exit(1)
	}

	auther := tasks.NewAuthenticator(repo.Users(), cfg).
		WithLogger(logger)

	app := fiber.New(fiber.Config{
		AppName:      "go-tasks",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	tasks.RegisterRoutes(app, auther, repo, logger)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			logger.Error("server stopped", "error", err)
		}
	}()

	logger.Info("server listening", "addr", cfg.ListenAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func buildZap(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
