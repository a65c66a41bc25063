package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/lalarentals/users-micro/internal/database"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  `Create the users, houses and bookings tables if they do not exist.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	db, err := openDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "apply schema").Wrap(err)
	}
	logger.Info("schema applied", "database", cfg.DB.Name)
	return nil
}
