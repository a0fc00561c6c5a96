package dbmigrate

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Run executes one goose command against the fitapp schema.
func Run(command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("migrate: database URL is empty")
	}
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("migrate: open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("migrate: ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: set goose dialect: %w", err)
	}

	started := time.Now()
	if err := goose.Run(command, db, migrationsDir); err != nil {
		return fmt.Errorf("migrate: goose %s failed: %w", command, err)
	}
	log.Printf("migrate: goose %s done in %s (dir=%s)", command, time.Since(started).Round(time.Millisecond), migrationsDir)

	return nil
}
