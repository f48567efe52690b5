package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "Handbag personality quizzes",
	Long: `satchel runs branching personality quizzes and turns the answers into
a trait profile: raw and normalized scores, trait levels, dominant traits and
the personality type reached.

Quizzes are bundled in the binary or imported from JSON/YAML files. Sessions
and profiles are stored in a local libsql database or a remote Turso database.`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		err := app.Close(context.Background())
		app = nil
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is opened on first use by commands that need storage.
var app *AppContext

func requireApp(ctx context.Context) (*AppContext, error) {
	if app != nil {
		return app, nil
	}
	a, err := NewAppContext(ctx)
	if err != nil {
		return nil, err
	}
	app = a
	return app, nil
}
