package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/samber/oops"

	"github.com/lalarentals/users-micro/internal/config"
	"github.com/lalarentals/users-micro/internal/database"
	"github.com/lalarentals/users-micro/internal/logging"
	"github.com/lalarentals/users-micro/internal/notify"
	"github.com/lalarentals/users-micro/internal/queue"
)

// bootstrap loads the configuration and builds the process logger, which
// also becomes slog's default.
func bootstrap() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}
	logger := logging.New(os.Stdout, cfg.IsDev())
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func openDB(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	return db, nil
}

// newDeliverer picks the transport for outgoing email.  With amqp the HTTP
// process only publishes; a notify-worker does the SMTP send.
func newDeliverer(cfg config.NotifyConfig, logger *slog.Logger) (notify.Deliverer, error) {
	switch cfg.Transport {
	case config.TransportLog, "":
		return notify.LogDeliverer{Logger: logger}, nil
	case config.TransportSMTP:
		return notify.NewSMTPSender(cfg.SMTP), nil
	case config.TransportAMQP:
		if cfg.AMQP.URL == "" {
			return nil, oops.Code("CONFIG_INVALID").Errorf("RABBITMQ_URL is required when NOTIFY_TRANSPORT=amqp")
		}
		return queue.NewPublisher(cfg.AMQP, logger), nil
	}
	return nil, oops.Code("CONFIG_INVALID").With("transport", cfg.Transport).Errorf("unknown NOTIFY_TRANSPORT %q", cfg.Transport)
}

func bootstrapWorker() (config.WorkerConfig, *slog.Logger, error) {
	cfg, err := config.LoadWorker()
	if err != nil {
		return config.WorkerConfig{}, nil, oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}
	logger := logging.New(os.Stdout, cfg.IsDev())
	slog.SetDefault(logger)
	return cfg, logger, nil
}
