package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/streamlog/broker/internal/api/http/handlers"
	"github.com/streamlog/broker/internal/api/http/middleware"
	"github.com/streamlog/broker/internal/logger"
	"github.com/streamlog/broker/internal/metrics"
	"github.com/streamlog/broker/internal/storage"
	"github.com/streamlog/broker/internal/storage/schema"
)

// Router manages HTTP routes and middleware
type Router struct {
	mux            *mux.Router
	brokerHandlers *handlers.BrokerHandlers
	schemaHandlers *handlers.SchemaHandlers
}

// NewRouter creates a new router. schemas and nodeMetrics may be nil.
func NewRouter(registry *storage.Registry, schemas *schema.Registry, nodeMetrics *metrics.NodeMetrics) *Router {
	r := &Router{
		mux:            mux.NewRouter(),
		brokerHandlers: handlers.NewBrokerHandlers(registry, nodeMetrics),
		schemaHandlers: handlers.NewSchemaHandlers(schemas, nodeMetrics),
	}

	r.setupRoutes(registry)

	return r
}

// setupRoutes sets up all HTTP routes
func (r *Router) setupRoutes(registry *storage.Registry) {
	log := logger.WithComponent("http.middleware")
	r.mux.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logging(log),
	)

	// Health endpoints double as the root info page
	r.mux.HandleFunc("/", handlers.HealthCheck(registry)).Methods(http.MethodGet)
	r.mux.HandleFunc("/health", handlers.HealthCheck(registry)).Methods(http.MethodGet)
	r.mux.HandleFunc("/ready", handlers.ReadinessCheck(registry)).Methods(http.MethodGet)

	// Produce / consume
	r.mux.HandleFunc("/produce", r.brokerHandlers.Produce).Methods(http.MethodPost)
	r.mux.HandleFunc("/consume", r.brokerHandlers.Consume).Methods(http.MethodGet)

	// Topic management
	r.mux.HandleFunc("/topics", r.brokerHandlers.ListTopics).Methods(http.MethodGet)
	r.mux.HandleFunc("/topics/{topic}/info", r.brokerHandlers.TopicInfo).Methods(http.MethodGet)
	r.mux.HandleFunc("/topics/{topic}/schema", r.schemaHandlers.RegisterSchema).Methods(http.MethodPut)
	r.mux.HandleFunc("/topics/{topic}/schema", r.schemaHandlers.GetSchema).Methods(http.MethodGet)
	r.mux.HandleFunc("/topics/{topic}", r.brokerHandlers.DeleteTopic).Methods(http.MethodDelete)
}
