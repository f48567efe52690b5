package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/satchel/internal/export"
	"github.com/emiliopalmerini/satchel/internal/ports"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to JSON or CSV",
	Long: `Export completed profiles for external analysis.

Examples:
  satchel export profiles --format json --output profiles.json
  satchel export profiles --format csv --output profiles.csv
  satchel export profiles --quiz handbag --format csv`,
}

var exportProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Export completed profiles",
	RunE:  runExportProfiles,
}

// Flags
var (
	exportFormat string
	exportOutput string
	exportQuiz   string
	exportLimit  int
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportProfilesCmd)

	exportProfilesCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv")
	exportProfilesCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportProfilesCmd.Flags().StringVarP(&exportQuiz, "quiz", "q", "", "Filter by quiz slug")
	exportProfilesCmd.Flags().IntVarP(&exportLimit, "limit", "n", 1000, "Maximum profiles to export")
}

func runExportProfiles(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	a, err := requireApp(ctx)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	records, err := a.Service.ListProfiles(ctx, ports.ListProfilesOptions{
		Limit:    exportLimit,
		QuizSlug: optionalString(exportQuiz),
	})
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if err := export.Write(out, format, records); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d profiles to %s\n", len(records), exportOutput)
	}
	return nil
}
