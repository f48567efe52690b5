package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/adapters/otel"
	"github.com/emiliopalmerini/satchel/internal/adapters/turso"
	"github.com/emiliopalmerini/satchel/internal/migrate"
)

// testApp installs an AppContext over a migrated database in a temp dir.
func testApp(t *testing.T) *AppContext {
	t.Helper()

	db, err := turso.NewLocalDB(filepath.Join(t.TempDir(), "satchel.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	a, err := newAppContext(ctx, db, otel.NewNoOpExporter(), zap.NewNop(), 16)
	if err != nil {
		_ = db.Close()
		t.Fatalf("Failed to build app context: %v", err)
	}

	app = a
	t.Cleanup(func() {
		_ = a.Close(context.Background())
		app = nil
	})
	return a
}

// testCmd returns a command whose output is captured.
func testCmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

// complete runs one session of the weekend quiz to the end.
func complete(t *testing.T, a *AppContext, answers ...int) string {
	t.Helper()
	ctx := context.Background()

	st, err := a.Service.Start(ctx, "weekend")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for _, idx := range answers {
		if _, err := a.Service.Answer(ctx, st.SessionID, idx); err != nil {
			t.Fatalf("Answer(%d) failed: %v", idx, err)
		}
	}
	return st.SessionID
}
