package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/satchel/internal/adapters/turso"
	"github.com/emiliopalmerini/satchel/internal/infrastructure/config"
	"github.com/emiliopalmerini/satchel/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  satchel migrate           # Run all pending migrations
  satchel migrate 1         # Migrate to version 1
  satchel migrate 0         # Rollback all migrations
  satchel migrate --status  # Show the applied and pending migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

var migrateStatus bool

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Show migration status without changing anything")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	target := -1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version %q", args[0])
		}
		target = v
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := turso.NewDB(*cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return migrateTo(ctx, cmd.OutOrStdout(), db, target, migrateStatus)
}

// migrateTo moves the schema to target; -1 means latest.
func migrateTo(ctx context.Context, out io.Writer, db *sql.DB, target int, statusOnly bool) error {
	st, err := migrate.GetStatus(ctx, db)
	if err != nil {
		return err
	}
	if st.Dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", st.Current)
	}

	fmt.Fprintf(out, "Current version: %d\n", st.Current)

	if statusOnly {
		fmt.Fprintf(out, "Latest version:  %d\n", st.Latest)
		if len(st.Pending) == 0 {
			fmt.Fprintln(out, "No pending migrations")
		}
		for _, m := range st.Pending {
			fmt.Fprintf(out, "  pending %s\n", m)
		}
		return nil
	}

	if target < 0 {
		target = st.Latest
	}
	if target > st.Latest {
		return fmt.Errorf("version %d does not exist (latest is %d)", target, st.Latest)
	}

	switch {
	case target == st.Current:
		fmt.Fprintln(out, "Already at target version")
		return nil
	case target > st.Current:
		applied, err := migrate.Up(ctx, db, target)
		for _, m := range applied {
			fmt.Fprintf(out, "  applied %s\n", m)
		}
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	default:
		reverted, err := migrate.Down(ctx, db, target)
		for _, m := range reverted {
			fmt.Fprintf(out, "  reverted %s\n", m)
		}
		if err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
	}

	fmt.Fprintf(out, "Now at version %d\n", target)
	return nil
}
