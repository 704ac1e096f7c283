package app

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.trai.ch/lantern/internal/adapters/bridge"
	"go.trai.ch/lantern/internal/build"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/engine/worker"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	// Listen overrides the configured listen address.
	Listen string
	// Ready, when set, receives the bound address once the edge accepts connections.
	Ready func(addr string)
}

// Handler returns the edge's HTTP surface: the bridge endpoint, the status
// endpoint and the worker for every other request.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(domain.BridgePath, bridge.NewHandler(a.hub, a.logger))
	mux.HandleFunc(domain.StatusEndpoint, a.serveStatus)
	mux.Handle("/", worker.NewHandler(a.worker, a.logger))
	return mux
}

func (a *App) serveStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.Status(r.Context(), build.Version)
	if err != nil {
		a.logger.Error(err)
		http.Error(w, "status unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(status)
}

// Serve runs the edge until ctx is done: the HTTP server, the connectivity
// monitor and the worker install pass run concurrently.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	addr := opts.Listen
	if addr == "" {
		addr = a.cfg.Listen
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", addr)
	}

	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	a.logger.Info("lantern is serving", "addr", ln.Addr().String(), "origin", a.cfg.Origin.String())
	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, "http server failed")
		}
		return nil
	})

	g.Go(func() error {
		return a.monitor.Run(gctx)
	})

	g.Go(func() error {
		if _, err := a.worker.Install(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	a.worker.Wait()
	a.logger.Info("lantern stopped")
	return err
}
