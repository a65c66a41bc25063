package main // Entry point package

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates the root command.  With no subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users-micro",
		Short: "LALA Rentals users service",
		Long: `Registers and authenticates users, and manages house listings
and bookings for the LALA Rentals platform.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewNotifyWorkerCmd())
	return cmd
}
