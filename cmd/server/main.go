// Command server is the long-running HTTP deployment shape for the golf
// scoreboard API (spec §1, §6): it serves /scores and the admin surface
// behind a blocking upstream client and a graceful-shutdown http.Server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/derekfrye/rusty-golf-sub001/internal/app"
	"github.com/derekfrye/rusty-golf-sub001/internal/config"
	"github.com/derekfrye/rusty-golf-sub001/internal/observability"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	if cfg.BetterStackEnabled {
		shippedLogger, drain, err := observability.InitBetterStackLogger(cfg, logger)
		if err != nil {
			logger.Error("init betterstack logger", "error", err)
			os.Exit(1)
		}
		logger = shippedLogger
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := drain(ctx); err != nil {
				logger.Error("drain betterstack logger", "error", err)
			}
		}()
	}
	logging.SetDefault(logger)

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uptraceShutdown(ctx); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}()

	pyroscopeStop, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := pyroscopeStop(); err != nil {
			logger.Error("stop pyroscope", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}
	if pprofSrv != nil {
		defer func() {
			if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
				logger.Error("stop pprof server", "error", err)
			}
		}()
	}

	handler, closeStorage, err := app.NewHTTPHandler(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Error("close storage backend", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}
