package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/fintrack-server/internal/auth"
	"github.com/carson-networks/fintrack-server/internal/handlers/v1/budget"
	"github.com/carson-networks/fintrack-server/internal/handlers/v1/currency"
	"github.com/carson-networks/fintrack-server/internal/handlers/v1/market"
	"github.com/carson-networks/fintrack-server/internal/handlers/v1/status"
	"github.com/carson-networks/fintrack-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/fintrack-server/internal/logging"
	"github.com/carson-networks/fintrack-server/internal/service"
)

const shutdownTimeout = 15 * time.Second

type Rest struct {
	Logger        *logrus.Logger
	Port          string
	Service       *service.Service
	Authenticator auth.Authenticator
	Database      status.Pinger
	Gatherer      prometheus.Gatherer
}

// Handler builds the router with every operation registered.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	api := humago.New(mux, huma.DefaultConfig("fintrack-server", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	authenticated := auth.Middleware(api, r.Authenticator)

	transaction.NewCreateTransactionHandler(r.Service.Transaction).Register(api, authenticated)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api, authenticated)
	transaction.NewSuggestTransactionHandler(r.Service.Transaction).Register(api, authenticated)
	budget.NewStatusHandler(r.Service.Budget).Register(api, authenticated)
	market.NewMarketDataHandler(r.Service.Market).Register(api, authenticated)
	currency.NewConvertHandler(r.Service.Currency).Register(api)

	statusHandler := status.NewHandler(r.Database)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	gatherer := r.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

// Serve listens until ctx is cancelled and then shuts the server down gracefully.
func (r *Rest) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
