package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edustore/checkout-service/internal/infrastructure/http/middleware"
	"github.com/edustore/checkout-service/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", s.healthHandler.HandleHealth())
	r.Get("/internal/reconciliation", s.adminHandler.HandleUnresolvedAttempts())

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.catalogHandler.HandleListItems())

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.cartHandler.HandleGetCart())
			r.Post("/items", s.cartHandler.HandleAddItem())
			r.Patch("/items/{productID}", s.cartHandler.HandleSetQuantity())
			r.Delete("/items/{productID}", s.cartHandler.HandleRemoveItem())
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", s.checkoutHandler.HandleBegin())
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.checkoutHandler.HandleGetSession())
				r.Post("/success", s.checkoutHandler.HandleSuccessCallback())
				r.Post("/failure", s.checkoutHandler.HandleFailureCallback())
				r.Post("/dismiss", s.checkoutHandler.HandleDismissCallback())
				r.Post("/reset", s.checkoutHandler.HandleReset())
			})
		})

		r.Get("/purchases", s.downloadsHandler.HandleListPurchases())
		r.Get("/downloads", s.downloadsHandler.HandleListDownloads())
	})

	handler := middleware.NewAuthMiddleware(s.userResolver)(r)
	handler = middleware.NewRecoveryMiddleware(s.logger)(handler)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 90*time.Second, "Request timeout")
}
