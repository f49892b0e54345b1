// Package server wires the HTTP facade: the read-only snapshot endpoints the
// rendering layer polls and the intent endpoints it submits to.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tmcgann/stockdeck/internal/handler"
	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/metrics"
	"github.com/tmcgann/stockdeck/internal/notify"
	"github.com/tmcgann/stockdeck/internal/query"
	"github.com/tmcgann/stockdeck/internal/store"
	"github.com/tmcgann/stockdeck/internal/transfer"
)

type Server struct {
	httpServer *http.Server
	store      *store.Store
	engine     *transfer.Engine
}

// NewServer creates the HTTP facade over the engine's collaborators.
func NewServer(port int, version, environment string, st *store.Store, eng *transfer.Engine, view *query.View, center *notify.Center) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(requestSizeLimitMiddleware(MaxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/version", handler.HandleVersion(version, environment))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", handler.HandleState(st, view))
		r.Get("/dashboard", handler.HandleDashboard(st))
		r.Post("/refresh", handler.HandleRefresh(st))

		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", handler.HandleListWarehouses(st))
			r.Post("/", handler.HandleCreateWarehouse(st))
			r.Put("/{id}", handler.HandleUpdateWarehouse(st))
			r.Delete("/{id}", handler.HandleDeleteWarehouse(st))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", handler.HandleListItems(st))
			r.Post("/", handler.HandleCreateItem(st))
			r.Put("/{id}", handler.HandleUpdateItem(st))
			r.Delete("/{id}", handler.HandleDeleteItem(st))
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/open", handler.HandleOpenTransfer(st, eng))
			r.Post("/", handler.HandleSubmitTransfer(eng))
			r.Get("/status", handler.HandleTransferStatus(eng))
		})

		r.Route("/view", func(r chi.Router) {
			r.Post("/filter", handler.HandleSetFilter(view))
			r.Post("/page", handler.HandleSetPage(view))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", handler.HandleListNotifications(center))
			r.Delete("/", handler.HandleClearNotifications(center))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		store:  st,
		engine: eng,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func requestSizeLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully and waits for in-flight gateway
// reconciliations so optimistic rows settle before exit.
func (s *Server) Stop(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.engine.Drain()
	s.store.Drain()
	return err
}
