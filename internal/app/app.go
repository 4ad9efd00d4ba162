package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"exchpoint/internal/adapters/cache"
	"exchpoint/internal/adapters/httpclient"
	"exchpoint/internal/adapters/postgres"
	"exchpoint/internal/api"
	"exchpoint/internal/client"
	clienthandler "exchpoint/internal/client/handler"
	"exchpoint/internal/config"
	"exchpoint/internal/currency"
	currencyhandler "exchpoint/internal/currency/handler"
	"exchpoint/internal/exchange"
	exchangehandler "exchpoint/internal/exchange/handler"
	"exchpoint/internal/platform/db"
	httpserver "exchpoint/internal/platform/http"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts the HTTP server and the
// rate-refresh scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	// Currency cache
	currencyCache, err := cache.NewCurrencyCache(appCfg.Cache.MaxItems)
	if err != nil {
		logrus.WithError(err).Error("Failed to create currency cache")
		return err
	}
	defer currencyCache.Close()

	// Repositories
	clientRepo := postgres.NewClientRepository(pool)
	currencyRepo := postgres.NewCurrencyRepository(pool)
	operationRepo := postgres.NewOperationRepository(pool)
	limitRepo := postgres.NewLimitRepository(pool)
	txManager := postgres.NewTxManager(pool)

	// Services
	clientService := client.NewService(clientRepo)
	clientValidator := client.NewValidator()
	rateRegistry := currency.NewService(currencyRepo, currencyCache)
	currencyValidator := currency.NewValidator()
	ledger := exchange.NewService(clientRepo, currencyRepo, operationRepo, limitRepo, txManager)
	limitService := exchange.NewLimitService(limitRepo)

	// Scheduled market-rate refresh, active only when an API key is set
	if appCfg.RatesAPI.Enabled() {
		httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
		if httpTimeout <= 0 {
			httpTimeout = 10 * time.Second
		}
		baseHTTPClient := &http.Client{Timeout: httpTimeout}

		ratesAPIBaseURL := strings.TrimSuffix(appCfg.RatesAPI.BaseURL, "/")
		rateClient := httpclient.NewRatesAPIClient(
			baseHTTPClient,
			fmt.Sprintf("%s/%s/latest", ratesAPIBaseURL, appCfg.RatesAPI.APIKey),
		)

		scheduler := currency.NewScheduler(
			rateRegistry,
			rateClient,
			appCfg.RatesAPI.SpreadBps,
			time.Duration(appCfg.RatesAPI.IntervalSeconds)*time.Second,
		)
		// Ensure scheduler stops before DB pool closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Info("✅ Scheduler activation successful")
	} else {
		logrus.Info("Rates API key not set, market-rate refresh disabled")
	}

	// Handlers and router
	clientHandler := clienthandler.NewClientHandler(clientValidator, clientService)
	currencyHandler := currencyhandler.NewCurrencyHandler(currencyValidator, rateRegistry)
	exchangeHandler := exchangehandler.NewExchangeHandler(ledger, limitService)
	router := api.NewRouter(clientHandler, currencyHandler, exchangeHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
