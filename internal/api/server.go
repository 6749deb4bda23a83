// Package api serves hunt settlements and the saved-session history over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fakeyudi/huntsplit/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// BaseServer owns the router and the underlying http.Server.
type BaseServer struct {
	Router *mux.Router
	Server *http.Server
	Logger *slog.Logger
}

// NewBaseServer returns a server listening on addr with logging and CORS
// middleware installed.
func NewBaseServer(addr string, logger *slog.Logger) *BaseServer {
	logger = logging.Component(logger, "api")

	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &BaseServer{
		Router: router,
		Server: server,
		Logger: logger,
	}
}

// Start blocks serving requests. It returns nil after a graceful Shutdown.
func (bs *BaseServer) Start() error {
	bs.Logger.Info("starting HTTP server", "addr", bs.Server.Addr)
	if err := bs.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (bs *BaseServer) Shutdown(ctx context.Context) error {
	bs.Logger.Info("shutting down HTTP server")
	return bs.Server.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (bs *BaseServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- bs.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := bs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
