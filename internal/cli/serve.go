package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/satchel/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quiz web server",
	Long: `Start the web server: HTML quiz pages plus the JSON API.

The listen address defaults to SATCHEL_ADDR (:8080).

Examples:
  satchel serve              # Listen on SATCHEL_ADDR
  satchel serve --port 3000  # Listen on :3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides SATCHEL_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := requireApp(ctx)
	if err != nil {
		return err
	}

	addr := ":8080"
	shutdownTimeout := 10 * time.Second
	if a.Config != nil {
		addr = a.Config.Addr
		shutdownTimeout = a.Config.ShutdownTimeout
	}
	if servePort > 0 {
		addr = fmt.Sprintf(":%d", servePort)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d quizzes on http://localhost%s\n", len(a.Catalog.List()), addr)
	return web.NewServer(a.Service, addr, a.Logger).Start(ctx, shutdownTimeout)
}
