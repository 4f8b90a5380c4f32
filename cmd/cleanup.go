package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/config"
	"github.com/spf13/cobra"
)

const defaultCleanupDays = 30

type cleanupClient interface {
	Cleanup(ctx context.Context, olderThan time.Duration, dryRun bool) (int, error)
}

// NewCleanupCmd creates the cleanup command with explicit dependencies.
func NewCleanupCmd(client cleanupClient) *cobra.Command {
	if client == nil {
		panic("NewCleanupCmd: client dependency cannot be nil")
	}

	var daysFlag int
	var dryRunFlag bool

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Purge old deleted notifications",
		Long: `Purge old deleted notifications.

Deleted notifications are kept until cleanup removes them for good. Only
notifications deleted more than --days days ago are purged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default days 0 means "use config value"
			days := daysFlag
			if days == 0 {
				days = config.GetInt("auto_cleanup_days", defaultCleanupDays)
			}
			if days <= 0 {
				return fmt.Errorf("days must be a positive integer")
			}

			cmd.Printf("Starting cleanup of notifications deleted more than %d days ago\n", days)

			n, err := client.Cleanup(cmd.Context(), time.Duration(days)*24*time.Hour, dryRunFlag)
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}

			if dryRunFlag {
				cmd.Printf("Would purge %d notification(s)\n", n)
				return nil
			}
			cmd.Printf("Purged %d notification(s)\n", n)
			return nil
		},
	}

	cleanupCmd.Flags().IntVar(&daysFlag, "days", 0, "Purge notifications deleted more than N days ago (default: auto_cleanup_days config value)")
	cleanupCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be purged without purging")

	return cleanupCmd
}
