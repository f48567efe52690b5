package cli

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/satchel/internal/pkg/tui/components"
	"github.com/emiliopalmerini/satchel/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/satchel/internal/quiz"
	"github.com/emiliopalmerini/satchel/internal/util"
)

var takeCmd = &cobra.Command{
	Use:   "take [slug]",
	Short: "Take a quiz in the terminal",
	Long: `Take a quiz in the terminal and print the resulting profile.

A quiz from the catalog is run as a stored session, so its profile shows up
in stats and exports. A quiz loaded with --file runs in memory only.

Examples:
  satchel take handbag
  satchel take --file my-quiz.yaml
  satchel take handbag --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTake,
}

// Flags
var (
	takeFile string
	takeJSON bool
)

func init() {
	rootCmd.AddCommand(takeCmd)
	takeCmd.Flags().StringVar(&takeFile, "file", "", "Quiz file to run without storing anything")
	takeCmd.Flags().BoolVar(&takeJSON, "json", false, "Print the profile as JSON")
}

var errTakeCancelled = errors.New("quiz cancelled")

func runTake(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var (
		title   string
		first   *quiz.NodeView
		longest int
		answer  answerFunc
	)

	switch {
	case takeFile != "":
		g, _, _, err := loadQuizFile(takeFile, "")
		if err != nil {
			return err
		}
		s := quiz.NewSession(g)
		first, _ = s.CurrentNode()
		title, longest, answer = g.Title(), g.LongestPath(), s.Submit

	case len(args) == 1:
		a, err := requireApp(ctx)
		if err != nil {
			return err
		}
		g, ok := a.Catalog.Get(args[0])
		if !ok {
			return fmt.Errorf("quiz %q not found (see satchel quiz list)", args[0])
		}
		st, err := a.Service.Start(ctx, args[0])
		if err != nil {
			return err
		}
		title, first, longest = g.Title(), st.Node, g.LongestPath()
		answer = func(idx int) (*quiz.Transition, error) {
			return a.Service.Answer(ctx, st.SessionID, idx)
		}

	default:
		return fmt.Errorf("a quiz slug or --file is required")
	}

	if title == "" {
		title = "Quiz"
	}
	m := newTakeModel(title, first, longest, answer)

	final, err := tea.NewProgram(m, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.ErrOrStderr())).Run()
	if err != nil {
		return fmt.Errorf("failed to run quiz: %w", err)
	}
	result := final.(takeModel)
	if result.cancelled || result.profile == nil {
		return errTakeCancelled
	}

	if takeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result.profile)
	}
	printProfile(cmd.OutOrStdout(), result.profile)
	return nil
}

// answerFunc submits an option index for the current question.
type answerFunc func(optionIndex int) (*quiz.Transition, error)

type takeModel struct {
	title     string
	selector  components.Selector
	progress  components.Progress
	answer    answerFunc
	profile   *quiz.Profile
	err       error
	cancelled bool
	styles    *theme.Styles
}

func newTakeModel(title string, first *quiz.NodeView, longest int, answer answerFunc) takeModel {
	return takeModel{
		title:    title,
		selector: components.NewSelector(first.Question, first.Options),
		progress: components.NewProgress(longest),
		answer:   answer,
		styles:   theme.Default(),
	}
}

func (m takeModel) Init() tea.Cmd {
	return nil
}

func (m takeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "enter", " ":
		return m.submit(m.selector.Cursor)
	}

	if idx, ok := m.selector.Shortcut(key.String()); ok {
		return m.submit(idx)
	}

	var cmd tea.Cmd
	m.selector, cmd = m.selector.Update(msg)
	return m, cmd
}

func (m takeModel) submit(idx int) (tea.Model, tea.Cmd) {
	tr, err := m.answer(idx)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.progress.Advance()

	if tr.Kind == quiz.KindDone {
		m.profile = tr.Profile
		return m, tea.Quit
	}
	m.selector = components.NewSelector(tr.Node.Question, tr.Node.Options)
	return m, nil
}

func (m takeModel) View() string {
	if m.profile != nil || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n\n")
	b.WriteString(m.selector.View())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(components.HelpBar(
		components.KeyBinding{Key: "j/k", Desc: "move"},
		components.KeyBinding{Key: "enter", Desc: "answer"},
		components.KeyBinding{Key: "1-9", Desc: "pick"},
		components.KeyBinding{Key: "q", Desc: "quit"},
	))
	return m.styles.Container.Render(b.String())
}

func printProfile(out io.Writer, p *quiz.Profile) {
	styles := theme.Default()

	var b strings.Builder
	b.WriteString(styles.Title.Render("You are the " + p.PersonalityType))
	b.WriteString("\n")
	if len(p.DominantTraits) > 0 {
		b.WriteString(styles.Body.Render("Dominant traits: " + strings.Join(p.DominantTraits, ", ")))
		b.WriteString("\n\n")
	}

	for _, trait := range sortedTraits(p) {
		level := p.Scores.Levels[trait]
		fmt.Fprintf(&b, "%-14s %6s  %s\n",
			trait,
			util.FormatPercent(p.Scores.Normalized[trait]),
			styles.Level(string(level)).Render(string(level)))
	}

	fmt.Fprintln(out, styles.Card.Render(strings.TrimRight(b.String(), "\n")))
}

// sortedTraits orders traits by normalized score, highest first, then name.
func sortedTraits(p *quiz.Profile) []string {
	traits := make([]string, 0, len(p.Scores.Normalized))
	for t := range p.Scores.Normalized {
		traits = append(traits, t)
	}
	slices.SortFunc(traits, func(a, b string) int {
		if c := cmp.Compare(p.Scores.Normalized[b], p.Scores.Normalized[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return traits
}
