package router

import (
	"net/http"
	"time"

	"zip-gate/internal/handler"
	"zip-gate/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Admin code management routes require the API key; the public check routes
// and the health check do not.
func New(
	codesHandler *handler.CodesHandler,
	checkHandler *handler.CheckHandler,
	apiKey string,
	requestTimeout time.Duration,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Admin code management routes, gated behind the API key
	adminAuth := middleware.AdminAuth(apiKey, logger)
	mux.Handle("/api/v1/codes", adminAuth(http.HandlerFunc(codesHandler.Collection)))
	mux.Handle("/api/v1/codes/", adminAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The bare collection path with a trailing slash routes to the
		// collection handler; anything longer is an item request.
		if r.URL.Path == "/api/v1/codes/" {
			codesHandler.Collection(w, r)
			return
		}
		codesHandler.Item(w, r)
	})))

	// Public storefront check routes
	mux.HandleFunc("/api/v1/check", checkHandler.Check)
	mux.HandleFunc("/api/v1/check/token", checkHandler.Token)
	mux.HandleFunc("/api/v1/check/status", checkHandler.Status)

	// Apply middleware in order: Recovery -> Logging -> CORS -> Timeout
	var h http.Handler = mux
	h = middleware.Timeout(requestTimeout)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
