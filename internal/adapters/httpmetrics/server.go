// Package httpmetrics serves the Prometheus /metrics endpoint the driver
// optionally exposes while it runs. Off by default; enabled by setting
// internal/config.Config.MetricsAddr.
package httpmetrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haltridge/epicast/pkg/logger"
	"github.com/haltridge/epicast/pkg/metrics"
)

// HTTP server timeout constants, matching the teacher's cmd/main.go values.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Server serves /metrics and /healthz on a dedicated address.
type Server struct {
	addr    string
	logger  logger.Logger
	srv     *http.Server
	handler http.Handler
}

// New constructs a Server bound to addr. It does not start listening until
// Start is called.
func New(addr string, log logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &Server{
		addr:    addr,
		logger:  log.Named("httpmetrics"),
		handler: mux,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Handler returns the underlying mux, for tests that want to drive it with
// httptest without binding a real port.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving in a background goroutine and returns immediately.
// Call Shutdown to stop it.
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.logger.Info(ctx, "starting metrics server", logger.String("addr", s.addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
}

// Shutdown gracefully stops the server, waiting up to shutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
