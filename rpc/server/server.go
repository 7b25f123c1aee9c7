package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/ValentinKolb/rStore/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("rpc")

const (
	defaultMaxBodyBytes = 1 << 20 // 1 MiB
	readHeaderTimeout   = 10 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Server is the HTTP server of a resource store.
// It owns no state besides the injected store, so the same store can be served
// by several servers (e.g. tcp and unix) at once.
type Server[T any] struct {
	config    common.ServerConfig
	store     store.IStore[T]
	connector transport.IServerConnector
	handler   http.Handler
}

// NewServer creates a new resource server for the given store.
// The store must already be seeded, the server never appends on its own.
//
// Usage:
//
//	s := server.NewServer[string](
//		config,
//		lstore.NewLocalStore[string](factory),
//		tcp.NewTCPServerConnector(),
//	)
//
//	if err := s.Serve(ctx); err != nil {
//		panic(err)
//	}
func NewServer[T any](
	config common.ServerConfig,
	s store.IStore[T],
	connector transport.IServerConnector,
) *Server[T] {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaultMaxBodyBytes
	}

	srv := &Server[T]{
		config:    config,
		store:     s,
		connector: connector,
	}
	srv.handler = srv.routes()
	return srv
}

// routes registers all handlers and wraps them with the global middleware.
// Unsupported methods on a known path are answered with 405 by the mux.
func (s *Server[T]) routes() http.Handler {
	mux := http.NewServeMux()

	handle(mux, "GET "+common.PathResources, "list", s.handleList)
	handle(mux, "POST "+common.PathResources, "create", s.handleCreate)
	handle(mux, "GET "+common.PathResources+"/{id}", "get", s.handleGet)
	handle(mux, "GET "+common.PathHealth, "health", s.handleHealth)
	mux.HandleFunc("GET "+common.PathMetrics, handleMetrics)

	var h http.Handler = mux
	h = recoverMiddleware(h)
	if s.config.LogLevel == "debug" {
		h = loggerMiddleware(h)
	}
	h = requestIDMiddleware(h)
	return h
}

// handle registers an instrumented handler
func handle(mux *http.ServeMux, pattern, route string, h http.HandlerFunc) {
	mux.Handle(pattern, metricsMiddleware(route, h))
}

// Handler returns the complete http.Handler of the server (routes and middleware)
func (s *Server[T]) Handler() http.Handler {
	return s.handler
}

// Serve creates a listener with the configured transport and serves until ctx is done.
func (s *Server[T]) Serve(ctx context.Context) error {
	listener, err := s.connector.Listen(s.config)
	if err != nil {
		return fmt.Errorf("failed to listen on %s (%s): %w", s.config.Endpoint, s.connector.GetName(), err)
	}
	Logger.Infof("listening on %s (%s)", s.config.Endpoint, s.connector.GetName())
	return s.ServeListener(ctx, listener)
}

// ServeListener serves on an existing listener until ctx is done.
// On cancellation in-flight requests are given shutdownTimeout to complete.
// A nil error is returned after a graceful shutdown.
func (s *Server[T]) ServeListener(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		Logger.Infof("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}
