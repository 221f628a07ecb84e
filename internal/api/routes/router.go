package routes

import (
	"net/http"

	"github.com/pathlens/labtestcompare/backend/internal/api/handlers"
	"github.com/pathlens/labtestcompare/backend/internal/api/middleware"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	testHandler      *handlers.TestHandler
	labHandler       *handlers.LabHandler
	analyticsHandler *handlers.AnalyticsHandler
	referenceHandler *handlers.ReferenceHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	testHandler *handlers.TestHandler,
	labHandler *handlers.LabHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	referenceHandler *handlers.ReferenceHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		testHandler:      testHandler,
		labHandler:       labHandler,
		analyticsHandler: analyticsHandler,
		referenceHandler: referenceHandler,
		cacheMiddleware:  cacheMiddleware,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Test endpoints
	r.mux.HandleFunc("GET /api/tests/search", r.testHandler.SearchTests)
	r.mux.HandleFunc("GET /api/tests/popular", r.testHandler.PopularTests)
	r.mux.HandleFunc("GET /api/tests/{id}", r.testHandler.GetTest)
	r.mux.HandleFunc("GET /api/tests/{id}/comparison", r.testHandler.CompareTest)

	// Lab endpoints
	r.mux.HandleFunc("GET /api/labs", r.labHandler.ListLabs)
	r.mux.HandleFunc("GET /api/labs/{slug}/tests", r.labHandler.BrowseLabTests)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/heatmap", r.analyticsHandler.Heatmap)
	r.mux.HandleFunc("GET /api/availability", r.analyticsHandler.Availability)

	// Reference endpoints
	r.mux.HandleFunc("GET /api/cities", r.referenceHandler.ListCities)
	r.mux.HandleFunc("GET /api/departments", r.referenceHandler.ListDepartments)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
