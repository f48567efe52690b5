package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/cli"
	"github.com/emiliopalmerini/satchel/internal/web"
)

// satchel-web serves the quiz web app configured entirely from the
// environment (SATCHEL_* and SATCHEL_OTEL_* variables), for container
// deployments against a remote Turso database.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := cli.NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}()

	if port := os.Getenv("PORT"); port != "" {
		a.Config.Addr = ":" + port
	}

	a.Logger.Info("starting satchel-web",
		zap.String("addr", a.Config.Addr),
		zap.Bool("remote_db", a.Config.Database.IsRemote()),
		zap.Int("quizzes", len(a.Catalog.List())))

	return web.NewServer(a.Service, a.Config.Addr, a.Logger).Start(ctx, a.Config.ShutdownTimeout)
}
