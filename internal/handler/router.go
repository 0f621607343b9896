package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"pdf-converter/internal/config"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)

	// Liveness, readiness and metrics stay reachable regardless of the
	// Host header so container probes always work.
	healthHandler := NewHealthHandler(container.Store)
	router.HandleFunc("/health/", healthHandler.Live).Methods(http.MethodGet)
	router.HandleFunc("/health", healthHandler.Live).Methods(http.MethodGet)
	router.HandleFunc("/ready/", healthHandler.Ready).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthHandler.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	hostsMiddleware := AllowedHostsMiddleware(container.Config.AllowedHosts, container.Config.Debug)

	// Collected static assets. The server only reads what collectstatic
	// staged; it never re-collects.
	static := router.PathPrefix("/static/").Subrouter()
	static.Use(hostsMiddleware)
	static.PathPrefix("/").Handler(http.StripPrefix("/static/",
		http.FileServer(http.Dir(container.Config.StaticRoot))))

	userHandler := NewUserHandler(container.UserService, container.BillingService, container.Logger)
	documentHandler := NewDocumentHandler(container.DocumentService, container.Config.MaxUploadSize, container.Logger)
	billingHandler := NewBillingHandler(container.BillingService, container.PricingRepository, container.Logger)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(hostsMiddleware)

	// Public routes
	api.HandleFunc("/users", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/pricing", billingHandler.Pricing).Methods(http.MethodGet)

	// Identified routes
	identified := api.PathPrefix("").Subrouter()
	identified.Use(APIKeyMiddleware(container.UserService, container.Logger))

	identified.HandleFunc("/users/me", userHandler.Profile).Methods(http.MethodGet)
	identified.HandleFunc("/users/me/balance", userHandler.AddBalance).Methods(http.MethodPost)

	identified.HandleFunc("/convert", documentHandler.Convert).Methods(http.MethodPost)
	identified.HandleFunc("/documents", documentHandler.List).Methods(http.MethodGet)
	identified.HandleFunc("/documents/{id}", documentHandler.Status).Methods(http.MethodGet)
	identified.HandleFunc("/documents/{id}", documentHandler.Delete).Methods(http.MethodDelete)
	identified.HandleFunc("/documents/{id}/download", documentHandler.Download).Methods(http.MethodGet)

	identified.HandleFunc("/transactions", billingHandler.Transactions).Methods(http.MethodGet)
	identified.HandleFunc("/dashboard", documentHandler.Dashboard).Methods(http.MethodGet)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-API-Key",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}
