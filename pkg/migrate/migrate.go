package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"
)

const (
	// DefaultDir is where cmd/migrate writes new files, relative to the repo root.
	DefaultDir     = "pkg/migrate/migrations"
	DefaultDialect = "postgres"
)

// EmbeddedDir selects the migrations compiled into the binary.
const EmbeddedDir = ""

const embeddedRoot = "migrations"

//go:embed migrations/*.sql
var bundled embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// Run executes a goose command against dir, or against the bundled
// migrations when dir is EmbeddedDir.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	return withGoose(dir, func(root string) error {
		if err := goose.RunContext(ctx, command, db, root, args...); err != nil {
			return fmt.Errorf("goose %s: %w", command, err)
		}
		return nil
	})
}

// MigrateToVersion migrates up or down to targetVersion from the current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	return withGoose(dir, func(root string) error {
		current, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		switch {
		case current == target:
			return nil
		case current < target:
			if err := goose.UpToContext(ctx, db, root, target); err != nil {
				return fmt.Errorf("goose up-to %d: %w", target, err)
			}
		default:
			if err := goose.DownToContext(ctx, db, root, target); err != nil {
				return fmt.Errorf("goose down-to %d: %w", target, err)
			}
		}
		return nil
	})
}

func withGoose(dir string, fn func(root string) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	// migrations are written for Postgres; sqlite runs use the test schema instead
	if err := goose.SetDialect(DefaultDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	root := dir
	if dir == EmbeddedDir {
		goose.SetBaseFS(bundled)
		root = embeddedRoot
	} else {
		goose.SetBaseFS(nil)
	}
	defer goose.SetBaseFS(nil)
	return fn(root)
}
