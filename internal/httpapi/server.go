package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/coinage/internal/logger"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// DefaultAddr is where serve listens when no address is given.
const DefaultAddr = "localhost:8000"

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

// Serve listens on addr and serves cat until ctx is cancelled, then shuts
// down gracefully. ready, when non-nil, receives the bound address once
// the listener is open.
func Serve(ctx context.Context, addr string, cat types.Catalog, log *logger.Logger, ready func(net.Addr)) error {
	if log == nil {
		log = logger.NewNop()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{
		Handler:      NewRouter(cat, log, DefaultBasePath),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("server stopped")
		return nil
	})
	return g.Wait()
}
