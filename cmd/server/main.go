package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edustore/checkout-service/internal/application/cartstore"
	"github.com/edustore/checkout-service/internal/application/catalogaccess"
	"github.com/edustore/checkout-service/internal/application/fulfillment"
	"github.com/edustore/checkout-service/internal/application/orchestrator"
	"github.com/edustore/checkout-service/internal/config"
	"github.com/edustore/checkout-service/internal/infrastructure/clients"
	"github.com/edustore/checkout-service/internal/infrastructure/http/server"
	"github.com/edustore/checkout-service/internal/infrastructure/monitoring"
	"github.com/edustore/checkout-service/internal/infrastructure/persistence/postgres"
	"github.com/edustore/checkout-service/internal/infrastructure/persistence/redis"
	"github.com/edustore/checkout-service/internal/infrastructure/scheduler"
	"github.com/edustore/checkout-service/internal/pkg/bus"
	"github.com/edustore/checkout-service/internal/pkg/clock"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Checkout Service")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	db, dbErr := postgres.NewConnection(cfg.Database)
	if dbErr != nil {
		log.Fatal("Failed to connect to database", "error", dbErr)
	}
	defer db.Close()

	if migrationErr := postgres.RunMigrations(cfg.Database); migrationErr != nil {
		log.Fatal("Failed to run migrations", "error", migrationErr)
	}

	redisConn, redisErr := redis.NewConnection(cfg.Redis)
	if redisErr != nil {
		log.Fatal("Failed to connect to Redis", "error", redisErr)
	}
	defer redisConn.Close()

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	events := bus.New()
	cache := redis.NewCache(redisConn, log)
	journal := postgres.NewJournalRepository(db)

	timeout := cfg.Services.Timeout()
	cartClient := clients.NewCartClient(cfg.Services.CartURL, timeout, cfg.Features.CartEnabled, log)
	catalogClient := clients.NewCatalogClient(cfg.Services.CatalogURL, timeout, log)
	orderClient := clients.NewOrderClient(cfg.Services.OrderURL, timeout, log)
	accountsClient := clients.NewAccountsClient(cfg.Services.AccountsURL, timeout, log)
	gatewayProbe := clients.NewGatewayProbe(cfg.Gateway.ScriptURL, timeout, log)

	carts := cartstore.NewManager(cartClient, events, log)
	catalog := catalogaccess.NewAccessor(catalogClient, cache, log, 5*time.Minute)
	purchases := fulfillment.NewAccessor(orderClient, events, log)

	orch := orchestrator.New(
		carts,
		orderClient,
		orderClient,
		gatewayProbe,
		cache,
		journal,
		events,
		clock.NewRealClock(),
		log,
		orchestrator.Config{
			PaymentsEnabled: cfg.Features.PaymentsEnabled,
			Currency:        cfg.Gateway.Currency,
			WidgetKey:       cfg.Gateway.WidgetKey,
			LockTTL:         cfg.Gateway.SessionTTL(),
			DisplayDelay:    cfg.Gateway.DisplayDelay(),
		},
	)

	orch.OnComplete(func(sessionID string) {
		log.Info("Checkout session completed", "session_id", sessionID)
	})

	sweeper := scheduler.NewSessionSweeper(orch, log, time.Minute, cfg.Gateway.SessionTTL())

	httpServer := server.NewServer(cfg, server.Dependencies{
		Carts:        carts,
		Catalog:      catalog,
		Fulfillment:  purchases,
		Orchestrator: orch,
		UserResolver: accountsClient,
		Journal:      journal,
		DB:           db.GetDB(),
		Redis:        redisConn.GetClient(),
	}, log)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	go sweeper.Start(serverCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, shutdownCancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer shutdownCancel()

		log.Info("Shutting down server...")
		sweeper.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}

		serverStopCtx()
	}()

	log.Info("Server starting", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", "error", err)
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}
