package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginternational/backoffice/internal/config"
	"github.com/ginternational/backoffice/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			if cfg.StoreDriver != config.StorePostgres {
				return fmt.Errorf("migrate requires STORE_DRIVER=postgres")
			}

			if err := db.RunMigrations(cmd.Context(), cfg.DatabaseURL.Value(), log, nil); err != nil {
				return err
			}

			log.WithField("schema_version", db.SchemaVersion()).Info("database schema is current")

			return nil
		},
	}
}
