package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/database"
)

const migrationsDir = "db/migrations"

// runMigrate drives goose against migrationsDir using the same
// config.yaml the server reads, so "migrate up" and "serve" always point
// at the same database.
func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to the YAML configuration file")
	fs.Parse(args)

	command := "up"
	if rest := fs.Args(); len(rest) > 0 {
		command = rest[0]
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading configuration:", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		fmt.Fprintln(os.Stderr, "opening database connection:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		fmt.Fprintln(os.Stderr, "setting goose dialect:", err)
		os.Exit(1)
	}

	if err := goose.RunContext(context.Background(), command, db.DB, migrationsDir); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", command, err)
		os.Exit(1)
	}
}
