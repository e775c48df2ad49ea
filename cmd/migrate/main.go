package main

import (
	"context"
	"flag"
	"os"

	"github.com/fatih/color"

	"policyai-be/internal/config"
	"policyai-be/pkg/database"
)

// Applies pending schema migrations. The connection string comes from
// DB_CONNECTION_STRING (or .env); nothing is embedded here.
func main() {
	dir := flag.String("dir", "migrations", "directory containing *.up.sql files")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		color.Red("Failed to get database handle: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	color.Cyan("Applying migrations from %s", *dir)

	applied, err := database.ApplyMigrations(context.Background(), sqlDB, *dir)
	for _, version := range applied {
		color.Green("applied %s", version)
	}
	if err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}

	if len(applied) == 0 {
		color.Yellow("Nothing to apply, schema is up to date")
	} else {
		color.Green("Done, %d migration(s) applied", len(applied))
	}
}
