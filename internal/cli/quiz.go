package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Manage quizzes",
	Long: `Validate, import and list quizzes.

Examples:
  satchel quiz validate handbag.yaml
  satchel quiz import handbag.yaml --slug handbag
  satchel quiz list`,
}

var quizValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a quiz file is a valid question graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuizValidate,
}

var quizImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a quiz file and store it in the database",
	Long: `Validate a quiz file and store it in the database.

The slug defaults to the file name without its extension. Importing under
the slug of a bundled quiz replaces it.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuizImport,
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the quizzes available to take",
	RunE:  runQuizList,
}

// Flags
var (
	quizFormat string
	quizSlug   string
)

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.AddCommand(quizValidateCmd, quizImportCmd, quizListCmd)

	quizCmd.PersistentFlags().StringVar(&quizFormat, "format", "", "Source format: json, yaml (default: from extension)")
	quizImportCmd.Flags().StringVar(&quizSlug, "slug", "", "Slug to store the quiz under")
}

func runQuizValidate(cmd *cobra.Command, args []string) error {
	g, f, _, err := loadQuizFile(args[0], quizFormat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: valid %s quiz\n", args[0], f)
	if g.Title() != "" {
		fmt.Fprintf(out, "  Title:        %s\n", g.Title())
	}
	fmt.Fprintf(out, "  Root:         %s\n", g.RootID())
	fmt.Fprintf(out, "  Questions:    %d\n", len(g.NodeIDs()))
	fmt.Fprintf(out, "  Longest path: %d\n", g.LongestPath())
	fmt.Fprintf(out, "  Traits:       %s\n", strings.Join(g.TraitOrder(), ", "))
	return nil
}

func runQuizImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	slug := quizSlug
	if slug == "" {
		base := filepath.Base(args[0])
		slug = strings.TrimSuffix(base, filepath.Ext(base))
	}

	data, f, err := readQuizFile(args[0], quizFormat)
	if err != nil {
		return err
	}

	a, err := requireApp(ctx)
	if err != nil {
		return err
	}
	g, err := a.Catalog.Import(ctx, a.Repos.Quizzes, slug, data, f)
	if err != nil {
		return fmt.Errorf("failed to import quiz: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s (%d questions)\n", g.Title(), slug, len(g.NodeIDs()))
	return nil
}

func runQuizList(cmd *cobra.Command, args []string) error {
	a, err := requireApp(context.Background())
	if err != nil {
		return err
	}

	entries := a.Catalog.List()
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No quizzes available")
		return nil
	}

	fmt.Fprintf(out, "%-20s %-9s %s\n", "SLUG", "SOURCE", "TITLE")
	for _, e := range entries {
		source := "stored"
		if e.Bundled {
			source = "bundled"
		}
		fmt.Fprintf(out, "%-20s %-9s %s\n", e.Slug, source, e.Title)
	}
	return nil
}
