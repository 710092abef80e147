package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/edustore/checkout-service/internal/application/cartstore"
	"github.com/edustore/checkout-service/internal/application/catalogaccess"
	"github.com/edustore/checkout-service/internal/application/fulfillment"
	"github.com/edustore/checkout-service/internal/application/orchestrator"
	"github.com/edustore/checkout-service/internal/config"
	"github.com/edustore/checkout-service/internal/infrastructure/http/handlers"
	"github.com/edustore/checkout-service/internal/infrastructure/http/middleware"
	"github.com/edustore/checkout-service/internal/infrastructure/persistence/postgres"
	"github.com/edustore/checkout-service/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	Carts        *cartstore.Manager
	Catalog      *catalogaccess.Accessor
	Fulfillment  *fulfillment.Accessor
	Orchestrator *orchestrator.Orchestrator
	UserResolver middleware.UserResolver
	Journal      *postgres.JournalRepository
	DB           *sql.DB
	Redis        *redis.Client
}

type Server struct {
	server           *http.Server
	logger           *logger.Logger
	userResolver     middleware.UserResolver
	healthHandler    *handlers.HealthHandler
	cartHandler      *handlers.CartHandler
	catalogHandler   *handlers.CatalogHandler
	checkoutHandler  *handlers.CheckoutHandler
	downloadsHandler *handlers.DownloadsHandler
	adminHandler     *handlers.AdminHandler
}

func NewServer(cfg *config.Config, deps Dependencies, log *logger.Logger) *Server {
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:           httpServer,
		logger:           log,
		userResolver:     deps.UserResolver,
		healthHandler:    handlers.NewHealthHandler(deps.DB, deps.Redis, log),
		cartHandler:      handlers.NewCartHandler(deps.Carts, deps.Catalog, log),
		catalogHandler:   handlers.NewCatalogHandler(deps.Catalog, log),
		checkoutHandler:  handlers.NewCheckoutHandler(deps.Orchestrator, log),
		downloadsHandler: handlers.NewDownloadsHandler(deps.Fulfillment, log),
		adminHandler:     handlers.NewAdminHandler(deps.Journal, log),
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
