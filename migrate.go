package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/fintrack-server/internal/storage"
	"github.com/carson-networks/fintrack-server/internal/storage/migrations"
)

func migrateCommand(logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			envConfig, err := loadConfig(logger)
			if err != nil {
				return err
			}

			dbStorage, err := storage.NewStorage(envConfig)
			if err != nil {
				return fmt.Errorf("storage.NewStorage: %w", err)
			}
			defer dbStorage.Close()

			result, err := migrations.Up(dbStorage.DB)
			if err != nil {
				return fmt.Errorf("migrations.Up: %w", err)
			}

			logger.WithFields(logrus.Fields{
				"preMigrationVersion":  result.PreMigrationVersion,
				"postMigrationVersion": result.PostMigrationVersion,
			}).Info("migrate complete")
			return nil
		},
	}
}
