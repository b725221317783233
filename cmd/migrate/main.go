package main

import (
	"fmt"
	"os"

	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Clinicore database schema",
	Long:  "Applies, rolls back and inspects the clinic database schema (users, notifications, messages, attachments, appointments, audit logs).",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending schema migrations",
	RunE:  runUp,
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE:  runDown,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE:  runStatus,
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty up/down migration pair",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(createCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getMigrator() (*migrate.Migrate, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	log := logger.New("info", "text")

	m, err := getMigrator()
	if err != nil {
		return err
	}

	log.Info().Msg("applying schema migrations")
	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Info().Msg("schema already up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Msg("schema migrations applied")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	log := logger.New("info", "text")

	m, err := getMigrator()
	if err != nil {
		return err
	}

	log.Info().Msg("rolling back most recent migration")
	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	log.Info().Msg("rollback complete")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	m, err := getMigrator()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		fmt.Println("Schema is empty: no migrations applied yet")
	} else {
		fmt.Printf("Schema version: %d (dirty: %v)\n", version, dirty)
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := os.MkdirAll("migrations", 0755); err != nil {
		return fmt.Errorf("failed to create migrations directory: %w", err)
	}

	entries, err := os.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	// Each migration is an up/down pair of files
	next := len(entries)/2 + 1

	upFile := fmt.Sprintf("migrations/%06d_%s.up.sql", next, name)
	downFile := fmt.Sprintf("migrations/%06d_%s.down.sql", next, name)

	upStub := fmt.Sprintf("-- %s: schema changes\n", name)
	if err := os.WriteFile(upFile, []byte(upStub), 0644); err != nil {
		return fmt.Errorf("failed to create up migration: %w", err)
	}

	downStub := fmt.Sprintf("-- %s: rollback\n", name)
	if err := os.WriteFile(downFile, []byte(downStub), 0644); err != nil {
		return fmt.Errorf("failed to create down migration: %w", err)
	}

	fmt.Printf("Created %s and %s\n", upFile, downFile)
	return nil
}
