package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete abandoned sessions",
	Long: `Delete unfinished sessions that have not been answered for a while.
Completed sessions and their profiles are kept.

Examples:
  satchel cleanup                      # Sessions idle for more than 7 days
  satchel cleanup --older-than 24h     # Sessions idle for more than a day
  satchel cleanup --session <id>       # Delete a specific session`,
	RunE: runCleanup,
}

// Flags
var (
	cleanupOlderThan time.Duration
	cleanupSession   string
)

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().DurationVar(&cleanupOlderThan, "older-than", 7*24*time.Hour, "Delete unfinished sessions idle for longer than this")
	cleanupCmd.Flags().StringVar(&cleanupSession, "session", "", "Delete a specific session ID")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := requireApp(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if cleanupSession != "" {
		session, err := a.Repos.Sessions.GetByID(ctx, cleanupSession)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		if session == nil {
			return fmt.Errorf("session %q not found", cleanupSession)
		}
		if err := a.Repos.Sessions.Delete(ctx, cleanupSession); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		fmt.Fprintf(out, "Deleted session %s\n", cleanupSession)
		return nil
	}

	if cleanupOlderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}
	n, err := a.Service.PurgeStale(ctx, cleanupOlderThan)
	if err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d abandoned sessions\n", n)
	return nil
}
