// Package migrate applies the embedded schema migrations to a libsql database.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/satchel/migrations"
)

// Migration is one numbered schema change with its up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

func (m Migration) String() string {
	return fmt.Sprintf("%03d_%s", m.Version, m.Name)
}

// Status describes where a database stands relative to the embedded migrations.
type Status struct {
	Current int
	Dirty   bool
	Latest  int
	Pending []Migration
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// CurrentVersion returns the applied version and whether the last run failed midway.
func CurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version, dirty int
	err := db.QueryRowContext(ctx,
		`SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`,
	).Scan(&version, &dirty)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty == 1, nil
}

func setVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version == 0 {
		return nil
	}
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}
	_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
	return err
}

// Load reads the embedded migration files sorted by version.
func Load() ([]Migration, error) {
	return loadFrom(migrations.FS)
}

func loadFrom(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var result []Migration
	for _, e := range entries {
		matches := upPattern.FindStringSubmatch(e.Name())
		if e.IsDir() || matches == nil {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("bad migration version in %s: %w", e.Name(), err)
		}

		up, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		// A missing down file leaves DownSQL empty and blocks rollback past it.
		down, _ := fs.ReadFile(fsys, matches[1]+"_"+matches[2]+".down.sql")

		result = append(result, Migration{
			Version: version,
			Name:    matches[2],
			UpSQL:   string(up),
			DownSQL: string(down),
		})
	}

	slices.SortFunc(result, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(result); i++ {
		if result[i].Version == result[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", result[i].Version)
		}
	}
	return result, nil
}

// SplitSQL splits a script into statements on semicolons, dropping blank
// and comment-only fragments.
func SplitSQL(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if hasCode(stmt) {
			out = append(out, strings.TrimSpace(stmt))
		}
	}
	return out
}

func hasCode(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}

func run(ctx context.Context, db *sql.DB, m Migration, up bool) error {
	script, target, direction := m.UpSQL, m.Version, "up"
	if !up {
		script, target, direction = m.DownSQL, m.Version-1, "down"
	}

	if err := setVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}
	for _, stmt := range SplitSQL(script) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %s %s failed: %w\nSQL: %s", m, direction, err, stmt)
		}
	}
	if err := setVersion(ctx, db, target, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}

func prepare(ctx context.Context, db *sql.DB) (int, []Migration, error) {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return 0, nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	current, dirty, err := CurrentVersion(ctx, db)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return 0, nil, fmt.Errorf("database is in dirty state at version %d", current)
	}
	all, err := Load()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return current, all, nil
}

// Up applies every pending migration up to target (0 means latest) and
// returns the ones it ran.
func Up(ctx context.Context, db *sql.DB, target int) ([]Migration, error) {
	current, all, err := prepare(ctx, db)
	if err != nil {
		return nil, err
	}

	var applied []Migration
	for _, m := range all {
		if m.Version <= current {
			continue
		}
		if target > 0 && m.Version > target {
			break
		}
		if err := run(ctx, db, m, true); err != nil {
			return applied, err
		}
		applied = append(applied, m)
	}
	return applied, nil
}

// Down rolls back applied migrations newer than target and returns the ones
// it reverted, newest first.
func Down(ctx context.Context, db *sql.DB, target int) ([]Migration, error) {
	current, all, err := prepare(ctx, db)
	if err != nil {
		return nil, err
	}

	var reverted []Migration
	for _, m := range slices.Backward(all) {
		if m.Version > current {
			continue
		}
		if m.Version <= target {
			break
		}
		if m.DownSQL == "" {
			return reverted, fmt.Errorf("no down migration for version %d", m.Version)
		}
		if err := run(ctx, db, m, false); err != nil {
			return reverted, err
		}
		reverted = append(reverted, m)
	}
	return reverted, nil
}

// RunAll applies all pending migrations.
func RunAll(ctx context.Context, db *sql.DB) error {
	_, err := Up(ctx, db, 0)
	return err
}

// GetStatus reports the applied version and the migrations still pending.
func GetStatus(ctx context.Context, db *sql.DB) (*Status, error) {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	current, dirty, err := CurrentVersion(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to get current version: %w", err)
	}
	all, err := Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	st := &Status{Current: current, Dirty: dirty}
	for _, m := range all {
		st.Latest = m.Version
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}
