// Package pocket is a tiny HTTP/1.1 server answering exactly one request per connection.
// Accepted connections are handed over to a bounded pool of workers, each of them reading,
// dispatching and answering a single request before closing the connection.
package pocket

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/indigo-web/pocket/config"
	httpserver "github.com/indigo-web/pocket/internal/server/http"
	"github.com/indigo-web/pocket/internal/pool"
	"github.com/indigo-web/pocket/internal/telemetry"
	"github.com/indigo-web/pocket/router"
	"github.com/indigo-web/pocket/router/fixed"
	"github.com/indigo-web/pocket/transport"
)

// ReasonPanic is reported as a connection failure reason whenever a handler panics.
const ReasonPanic = "panic"

type App struct {
	cfg       *config.Config
	tel       *telemetry.Telemetry
	transport transport.Transport
	hooks     hooks
}

// New returns a new App instance. Nil config means defaults.
func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	return &App{
		cfg:       cfg,
		transport: transport.NewTCP(),
	}
}

// Telemetry replaces the telemetry the app reports to. By default, slog.Default() is used
// for logging and both traces and metrics are discarded.
func (a *App) Telemetry(t *telemetry.Telemetry) *App {
	a.tel = t
	return a
}

// NotifyOnStart calls the callback at the moment the listener is bound, so Addr is
// already known.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment the app is down. It's guaranteed that at this
// moment no new connections are accepted and every accepted one is already served.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve binds the listener and serves connections until Stop is called. If nil is passed
// instead of a router, the fixed router over config's Files.Root is used.
func (a *App) Serve(r router.Router) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if r == nil {
		r = fixed.New(a.cfg.Files.Root)
	}

	tel := a.tel
	if tel == nil {
		tel = telemetry.Nop(slog.Default())
	}

	metrics, err := telemetry.NewMetrics(tel.Meter)
	if err != nil {
		return fmt.Errorf("pocket: metrics: %w", err)
	}

	if err = a.transport.Bind(a.cfg.NET.Addr); err != nil {
		return fmt.Errorf("pocket: bind: %w", err)
	}

	logger := tel.Logger
	workers := pool.New(a.cfg.Pool.Workers, a.cfg.Pool.QueueSize, logger).
		OnPanic(func(any) {
			metrics.Failure(context.Background(), ReasonPanic)
		})
	server := httpserver.NewServer(a.cfg, r, tel, metrics)

	logger.Info("listening",
		"addr", a.transport.Addr().String(),
		"workers", a.cfg.Pool.Workers,
		"root", a.cfg.Files.Root,
	)
	callIfNotNil(a.hooks.OnStart)

	err = a.transport.Listen(a.cfg.NET, func(conn net.Conn) {
		if err := workers.Execute(func() { server.Serve(conn) }); err != nil {
			logger.Warn("dropping connection", "err", err)
			_ = conn.Close()
		}
	})
	if err != nil {
		logger.Error("accept loop failed", "err", err)
	}

	workers.Close()
	workers.Wait()
	a.transport.Close()
	logger.Info("stopped")
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Stop stops accepting new connections. Serve returns once every already accepted
// connection is served.
//
// NOTE: the call isn't blocking. The accept loop notices it no later than in
// NET.AcceptLoopInterruptPeriod.
func (a *App) Stop() {
	a.transport.Stop()
}

// Addr returns the address the app is bound to, or nil if it isn't bound yet.
func (a *App) Addr() net.Addr {
	return a.transport.Addr()
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
