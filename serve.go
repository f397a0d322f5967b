package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/fintrack-server/api"
	"github.com/carson-networks/fintrack-server/internal/auth"
	"github.com/carson-networks/fintrack-server/internal/exchange"
	"github.com/carson-networks/fintrack-server/internal/operator"
	"github.com/carson-networks/fintrack-server/internal/service"
	"github.com/carson-networks/fintrack-server/internal/storage"
)

func serveCommand(logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd, logger)
		},
	}
}

func serveRun(cmd *cobra.Command, logger *logrus.Logger) error {
	logger.Info(programName + " starting")

	envConfig, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if err := envConfig.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		return fmt.Errorf("storage.NewStorage: %w", err)
	}
	defer func() {
		if err := dbStorage.Close(); err != nil {
			logger.WithError(err).Error("storage.Close")
		}
	}()

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := service.NewService(
		envConfig,
		dbStorage,
		delegator,
		exchange.NewRatesClient(envConfig.ExchangeRateURL, envConfig.UpstreamTimeout),
		exchange.NewPriceClient(envConfig.CoinGeckoURL, envConfig.UpstreamTimeout, envConfig.USDFallbackRate),
		service.NewMetrics(registry),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpRest := api.Rest{
		Logger:        logger,
		Port:          envConfig.HTTPPort,
		Service:       svc,
		Authenticator: auth.NewJWTAuthenticator(envConfig.JWTSecret, envConfig.JWTAudience),
		Database:      dbStorage,
		Gatherer:      registry,
	}
	return httpRest.Serve(ctx)
}
