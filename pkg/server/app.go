package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "ForexPulse/internal/domain/repository"
	"ForexPulse/internal/engine"
	"ForexPulse/internal/usecase"
	pkgch "ForexPulse/pkg/clickhouse"
	"ForexPulse/pkg/config"
	xhttp "ForexPulse/pkg/http"
	applogger "ForexPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App encapsulates the application lifecycle: HTTP server, optional price
// stream collector, the periodic scan loop, and graceful shutdown.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	handler   xhttp.Handler
	engine    *engine.Engine
	recorder  *usecase.SignalRecorder
	collector *usecase.QuoteCollector
	chClient  *pkgch.Client

	httpServer *xhttp.Server
}

// New creates an App with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	eng *engine.Engine,
	recorder *usecase.SignalRecorder,
	collector *usecase.QuoteCollector,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		engine:    eng,
		recorder:  recorder,
		collector: collector,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithRequestMetrics(a.log, time.Second))
	}
	a.httpServer = xhttp.NewServer(a.handler, opts...)
	a.httpServer.Echo().GET("/healthz", a.healthz)

	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.log.Error("price stream collector error", applogger.Error(err))
			}
		}()
		a.log.Info("price stream collector started", applogger.Strings("pairs", a.cfg.Signals.Pairs))
	}

	if a.cfg.Signals.ScanInterval > 0 {
		go a.scanLoop(ctx)
		a.log.Info("scan loop started", applogger.Duration("interval", a.cfg.Signals.ScanInterval))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// scanLoop runs the engine across all pairs on a fixed interval so the
// dashboard always has a fresh best signal.
func (a *App) scanLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Signals.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := a.engine.ScanAll(ctx, domrepo.DefaultTimeframe())
			if err != nil {
				a.log.Error("scan loop error", applogger.Error(err))
				continue
			}
			if res.BestSignal != nil {
				a.log.Info("scan loop best signal",
					applogger.String("pair", res.BestSignal.Pair),
					applogger.Int("confidence", res.BestSignal.Confidence),
					applogger.String("grade", string(res.BestSignal.SignalGrade)))
			} else {
				a.log.Debug("scan loop no valid signal",
					applogger.Int("scanned", res.Stats.Scanned),
					applogger.Int("skipped", res.Stats.Skipped))
			}
		}
	}
}

func (a *App) healthz(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if a.chClient != nil {
		if err := a.chClient.Health(c.Request().Context()); err != nil {
			status["clickhouse"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		status["clickhouse"] = "ok"
	}
	if a.collector != nil {
		if a.collector.IsConnected() {
			status["stream"] = "connected"
		} else {
			status["stream"] = "disconnected"
		}
	}
	return c.JSON(http.StatusOK, status)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.log.Warn("collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			a.log.Warn("recorder close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
