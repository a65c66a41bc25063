package main

import (
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/lalarentals/users-micro/internal/notify"
	"github.com/lalarentals/users-micro/internal/queue"
)

// NewNotifyWorkerCmd creates the notify-worker subcommand.
func NewNotifyWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify-worker",
		Short: "Send queued emails",
		Long: `Consume email requests published by the API (NOTIFY_TRANSPORT=amqp)
and send them over SMTP.  Failed sends are dropped, not retried.`,
		RunE: runNotifyWorker,
	}
}

func runNotifyWorker(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrapWorker()
	if err != nil {
		return err
	}
	amqpCfg := cfg.Notify.AMQP
	if amqpCfg.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("RABBITMQ_URL is required")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender := notify.NewSMTPSender(cfg.Notify.SMTP)
	consumer := queue.NewConsumer(amqpCfg, sender, logger, nil)
	logger.Info("notify worker started", "queue", amqpCfg.Queue)
	return consumer.Run(ctx)
}
