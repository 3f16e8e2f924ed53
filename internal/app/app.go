// Package app holds the HTTP server lifecycle shared by the three service
// binaries: one listener, signal-driven graceful shutdown.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/matchday/refassign/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second

	defaultShutdownTimeout = 30 * time.Second
)

// App runs one HTTP listener for a service.
type App struct {
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration
	log             logger.Logger
}

// Option applies a configuration option to the App.
type Option func(*App)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(a *App) {
		if addr != "" {
			a.addr = addr
		}
	}
}

// WithHandler sets the root HTTP handler.
func WithHandler(h http.Handler) Option {
	return func(a *App) {
		if h != nil {
			a.handler = h
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates an App with the provided options.
func New(opts ...Option) *App {
	a := &App{
		addr:            ":8000",
		handler:         http.DefaultServeMux,
		shutdownTimeout: defaultShutdownTimeout,
		log:             logger.Get(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run serves until ctx is canceled, then shuts down gracefully. It returns
// nil on a clean shutdown and the listener's error otherwise.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "starting HTTP server", logger.String("addr", a.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}

	a.log.Info(ctx, "server stopped")
	return nil
}
