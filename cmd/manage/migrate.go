package main

import (
	"medportal/internal/config"
	"medportal/internal/db"

	"github.com/spf13/cobra"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *db.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *db.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *db.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})
	return cmd
}

func withMigrator(run func(m *db.Migrator) error) (err error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	m, err := db.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); err == nil {
			err = closeErr
		}
	}()
	return run(m)
}
