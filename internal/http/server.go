// Package http exposes the tracker as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chitieu/internal/aggregate"
	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/metrics"
	"chitieu/internal/services"
)

// Tracker is the query and mutation surface the handlers depend on.
type Tracker interface {
	Settings() services.Settings
	Categories(ctx context.Context) []core.Category
	Dashboard(ctx context.Context, q core.Query) (aggregate.Dashboard, error)
	Yearly(ctx context.Context, year int) (aggregate.Yearly, error)
	CategoryDetail(ctx context.Context, id string, month, year int) (aggregate.CategoryView, error)
	CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error)
	UpdateCategory(ctx context.Context, id string, in core.CategoryInput) error
	DeleteCategory(ctx context.Context, id string) error
	AddExpenseItem(ctx context.Context, categoryID string, in core.ItemInput) (core.ExpenseItem, error)
	RemoveExpenseItem(ctx context.Context, categoryID, itemID string) error
}

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	Logger             *log.Logger
	Metrics            *metrics.Metrics
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Now supplies the default period for queries without month or year.
	Now func() time.Time
}

type Server struct {
	http.Server
	tracker     Tracker
	logger      *log.Logger
	access      *log.StructuredLogger
	metrics     *metrics.Metrics
	rateLimiter *rateLimiter
	now         func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, tracker Tracker, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		tracker:     tracker,
		logger:      logger,
		access:      log.NewStructuredLogger(logger),
		metrics:     opts.Metrics,
		rateLimiter: newRateLimiter(opts.RateLimitPerMinute),
		now:         opts.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	if opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("GET /api/config", s.handleSettings)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/yearly", s.handleYearly)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}", s.handleCategoryDetail)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("POST /api/categories/{id}/items", s.handleAddItem)
	mux.HandleFunc("DELETE /api/categories/{id}/items/{itemID}", s.handleRemoveItem)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withMiddleware(s.withRequestLogger(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.rateLimiter.start()
	return s
}

// Shutdown stops the rate limiter cleanup and gracefully shuts down the
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

const headerRequestID = "X-Request-ID"

// withMiddleware adds request IDs, security headers, rate limiting of
// mutating requests, access logging and request metrics.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		reqID := requestID(r.Header.Get(headerRequestID))
		r.Header.Set(headerRequestID, reqID)

		w.Header().Set(headerRequestID, reqID)
		setSecurityHeaders(w.Header())
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		logger := s.logger.With(log.FieldRequestID, reqID)

		if isSuspicious(r) {
			logger.WarnContext(r.Context(), "Suspicious request",
				log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
		}

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			rw.Header().Set("Retry-After", "60")
			writeJSON(rw, r, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		} else {
			next.ServeHTTP(rw, r)
		}

		elapsed := time.Since(start)
		route := rw.route
		if route == "" {
			route = "unmatched"
		}
		s.metrics.Request(rw.statusCode, r.Method, route, elapsed)
		s.access.LogHTTPEnd(log.IntoContext(r.Context(), logger), r, rw.statusCode, elapsed.Milliseconds(), clientIP)
	})
}

// withRequestLogger puts a request-scoped logger into the context and
// records the matched route pattern for metrics.
func (s *Server) withRequestLogger(mux *http.ServeMux) http.Handler {
	routed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if rw, ok := w.(*responseWriter); ok {
			rw.route = r.Pattern
		}
	})
	withID := log.RequestIDMiddleware(func(r *http.Request) string {
		return r.Header.Get(headerRequestID)
	})
	return log.Middleware(s.logger)(withID(routed))
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	route       string
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
