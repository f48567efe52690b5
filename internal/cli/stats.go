package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/ports"
	"github.com/emiliopalmerini/satchel/internal/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz statistics",
	Long: `Show how many sessions were started and completed, the average journey
length and how completed profiles split across personality types.

Examples:
  satchel stats                 # All quizzes
  satchel stats --quiz handbag  # One quiz
  satchel stats --live          # Add the last 24h of activity from Prometheus`,
	RunE: runStats,
}

// Flags
var (
	statsQuiz   string
	statsLive   bool
	statsWindow int
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsQuiz, "quiz", "q", "", "Filter by quiz slug")
	statsCmd.Flags().BoolVar(&statsLive, "live", false, "Include recent activity from Prometheus")
	statsCmd.Flags().IntVar(&statsWindow, "window", 24, "Hours of recent activity to show with --live")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := requireApp(ctx)
	if err != nil {
		return err
	}

	stats, err := a.Service.Stats(ctx, optionalString(statsQuiz))
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	title := "All quizzes"
	if statsQuiz != "" {
		title = "Quiz: " + statsQuiz
	}
	out := cmd.OutOrStdout()
	printStats(out, title, stats)

	if statsLive {
		printActivity(ctx, out, a.Prometheus, optionalString(statsQuiz), statsWindow)
	}
	return nil
}

func printStats(out io.Writer, title string, stats *domain.ProfileStats) {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "==========================================")
	fmt.Fprintf(out, "Sessions started:   %d\n", stats.SessionCount)
	fmt.Fprintf(out, "Profiles completed: %d (%s)\n", stats.CompletedCount, util.FormatPercent(stats.CompletionRate()))
	fmt.Fprintf(out, "Average journey:    %s questions\n", util.FormatScore(stats.AvgJourney))

	shares := stats.Shares()
	if len(shares) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Personality types")
	fmt.Fprintln(out, "------------------------------------------")
	for _, s := range shares {
		fmt.Fprintf(out, "  %-20s %5d  %4s\n", s.PersonalityType, s.Count, util.FormatPercent(s.Share))
	}
}

func printActivity(ctx context.Context, out io.Writer, prom ports.PrometheusClient, quizSlug *string, hours int) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Last %dh (Prometheus)\n", hours)
	fmt.Fprintln(out, "------------------------------------------")

	w, err := prom.GetRollingWindowActivity(ctx, quizSlug, hours)
	if err != nil || !w.Available {
		fmt.Fprintln(out, "  unavailable")
		return
	}

	fmt.Fprintf(out, "  Sessions started:   %.0f\n", w.Started)
	fmt.Fprintf(out, "  Profiles completed: %.0f\n", w.Completed)
	for _, outcome := range slices.Sorted(maps.Keys(w.Answers)) {
		fmt.Fprintf(out, "  Answers %-18s %.0f\n", outcome+":", w.Answers[outcome])
	}
}
