package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/fintrack-server/internal/config"
	"github.com/carson-networks/fintrack-server/internal/logging"
)

const programName = "fintrack-server"

var envFile string

func loadConfig(logger *logrus.Logger) (*config.Config, error) {
	envConfig, err := config.ProcessEnvironmentVariables(envFile)
	if err != nil {
		return nil, fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		return nil, err
	}
	return envConfig, nil
}

func main() {
	logger := logging.SetupLogging()

	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Personal finance transaction ingestion service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd, logger)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().
		StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	rootCmd.AddCommand(serveCommand(logger))
	rootCmd.AddCommand(migrateCommand(logger))

	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error(programName + " exited")
		os.Exit(1)
	}
}
