package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/vitrina-backend/pkg/config"
	"github.com/angelmondragon/vitrina-backend/pkg/db"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
	"github.com/angelmondragon/vitrina-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.EmbeddedDir, "migrations directory; empty uses the migrations bundled in this binary")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate only touch files and must work without a database or secrets
	switch *cmd {
	case "create":
		if *name == "" {
			exitf("missing -name for create")
		}
		target := *dir
		if target == migrate.EmbeddedDir {
			target = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, *name)
		if err != nil {
			exitf("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		var err error
		if *dir == migrate.EmbeddedDir {
			err = migrate.ValidateBundled()
		} else {
			err = migrate.ValidateDir(*dir)
		}
		if err != nil {
			exitf("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		exitf("load config: %v", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "vitrina-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	source := *dir
	if source == migrate.EmbeddedDir {
		source = "bundled"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"source": source,
	})

	if cfg.FeatureFlags.UseSQLite || cfg.DB.Driver == db.DriverSQLite {
		exitf("migrations target postgres; sqlite databases are created by the test helpers")
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "resource not working: database", err)
		os.Exit(1)
	}

	runErr := run(ctx, dbClient, *cmd, *dir, *version)
	if err := multierr.Append(runErr, dbClient.Close()); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration finished")
}

func run(ctx context.Context, client *db.Client, cmd, dir, version string) error {
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extract sql db: %w", err)
	}

	commands := map[string]func(*sql.DB) error{
		"up":     func(conn *sql.DB) error { return migrate.Run(ctx, conn, dir, "up") },
		"down":   func(conn *sql.DB) error { return migrate.Run(ctx, conn, dir, "down") },
		"status": func(conn *sql.DB) error { return migrate.Run(ctx, conn, dir, "status") },
		"version": func(conn *sql.DB) error {
			if version == "" {
				return fmt.Errorf("missing -version for version command")
			}
			return migrate.MigrateToVersion(ctx, conn, dir, version)
		},
	}
	fn, ok := commands[cmd]
	if !ok {
		return fmt.Errorf("unknown -cmd value %q", cmd)
	}
	return fn(sqlDB)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
