package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/config"
	"github.com/lalarentals/users-micro/internal/database"
	"github.com/lalarentals/users-micro/internal/handler"
	"github.com/lalarentals/users-micro/internal/metrics"
	"github.com/lalarentals/users-micro/internal/notify"
	"github.com/lalarentals/users-micro/internal/repository"
	"github.com/lalarentals/users-micro/internal/router"
	"github.com/lalarentals/users-micro/internal/service"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.  The schema is applied on startup, Redis is
used for rate limiting and caching when reachable, and email goes out
through the transport named by NOTIFY_TRANSPORT.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "apply schema").Wrap(err)
	}

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb == nil {
		logger.Warn("redis unavailable; rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	key := auth.SigningKey{Secret: cfg.JWT.Secret, Algorithm: cfg.JWT.Algorithm}
	issuer, err := auth.NewIssuer(key)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "token issuer").Wrap(err)
	}
	verifier, err := auth.NewVerifier(key)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "token verifier").Wrap(err)
	}

	m := metrics.New()
	deliverer, err := newDeliverer(cfg.Notify, logger)
	if err != nil {
		return err
	}
	dispatcher := notify.NewAsyncDispatcher(deliverer, cfg.Notify.Workers, cfg.Notify.QueueSize,
		notify.WithLogger(logger), notify.WithObserver(m.Notification), notify.WithDeliveryTimeout(cfg.Notify.Timeout))

	users := repository.NewUserRepo(db)
	houses := repository.NewHouseRepo(db)
	bookings := repository.NewBookingRepo(db)

	e := router.New(router.Deps{
		Config:   cfg,
		Logger:   logger,
		Verifier: verifier,
		Redis:    rdb,
		Metrics:  m,
		DB:       db,
		Auth: handler.NewAuthHandler(service.NewAuthService(users, auth.NewBcryptHasher(cfg.BcryptCost),
			issuer, cfg.JWT.TTL, dispatcher, m, logger)),
		Houses:   handler.NewHouseHandler(service.NewHouseService(houses, bookings)),
		Bookings: handler.NewBookingHandler(service.NewBookingService(bookings, houses, users, dispatcher, m, logger)),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("SERVER_FAILED").With("addr", addr).Wrap(err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("pending notifications dropped", "error", err)
	}
	return nil
}
