package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 30 * time.Second

func newHTTPServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}
}

// serve runs startup hooks, serves h until a signal arrives or cfg.ctx is
// done, then drains connections and runs shutdown hooks.
func (cfg runConfig) serve(h http.Handler) error {
	ctx, stop := signal.NotifyContext(cfg.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for i, hook := range cfg.startup {
		if err := hook(ctx); err != nil {
			cfg.log.Error("startup hook failed", slog.Int("hook", i), slog.Any("error", err))
			return errors.Join(fmt.Errorf("startup: %w", err), cfg.cleanup())
		}
	}

	ln, err := net.Listen("tcp", cfg.addr)
	if err != nil {
		return errors.Join(err, cfg.cleanup())
	}
	addr := ln.Addr().String()
	if cfg.onReady != nil {
		cfg.onReady(addr)
	}

	srv := newHTTPServer(h)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg.log.Info("server listening", slog.String("address", addr))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		cfg.log.Info("server draining connections", slog.Duration("timeout", cfg.grace))
		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.grace)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := errors.Join(g.Wait(), cfg.cleanup()); err != nil {
		cfg.log.Error("server stopped with errors", slog.Any("error", err))
		return err
	}
	cfg.log.Info("server stopped")
	return nil
}

// cleanup runs every shutdown hook under a fresh grace period.
func (cfg runConfig) cleanup() error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.grace)
	defer cancel()

	var errs []error
	for i, hook := range cfg.shutdown {
		if err := hook(ctx); err != nil {
			cfg.log.Error("shutdown hook failed", slog.Int("hook", i), slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
