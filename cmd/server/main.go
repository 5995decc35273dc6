package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"vacanza-be/internal/auth"
	"vacanza-be/internal/config"
	"vacanza-be/internal/handlers"
	"vacanza-be/internal/routes"
	"vacanza-be/internal/service"
	"vacanza-be/internal/storage/sqlite"
	"vacanza-be/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	tokens := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	authSvc := service.NewAuthService(store, tokens, logger)
	groupSvc := service.NewGroupService(store, logger)
	activitySvc := service.NewActivityService(store, groupSvc, logger)
	expenseSvc := service.NewExpenseService(store, groupSvc, logger)

	if cfg.Log.Format == "json" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := routes.Register(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authSvc),
		Groups:     handlers.NewGroupHandler(groupSvc),
		Activities: handlers.NewActivityHandler(activitySvc),
		Expenses:   handlers.NewExpenseHandler(expenseSvc),
		Tokens:     tokens,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "db", cfg.Database.Path)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
