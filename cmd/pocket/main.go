package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indigo-web/pocket"
	"github.com/indigo-web/pocket/config"
	"github.com/indigo-web/pocket/internal/telemetry"
	"github.com/indigo-web/pocket/router/fixed"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "pocket:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pocket", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "path to a JSON config file")
		directory  = fs.String("directory", "", "directory served by /files")
		addr       = fs.String("addr", "", "address to listen on")
		workers    = fs.Int("workers", 0, "number of connections served concurrently")
		queue      = fs.Int("queue", -1, "number of connections waiting for a free worker")
		logLevel   = fs.String("log-level", "", "one of debug, info, warn or error")
		otel       = fs.Bool("otel", false, "export traces, metrics and logs via OTLP/gRPC")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	// explicitly passed flags take precedence over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "directory":
			cfg.Files.Root = *directory
		case "addr":
			cfg.NET.Addr = *addr
		case "workers":
			cfg.Pool.Workers = *workers
		case "queue":
			cfg.Pool.QueueSize = *queue
		case "log-level":
			cfg.Log.Level = *logLevel
		case "otel":
			cfg.Telemetry.Enabled = *otel
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintln(os.Stderr, "pocket: telemetry shutdown:", err)
		}
	}()

	app := pocket.New(cfg).Telemetry(tel)

	go func() {
		<-ctx.Done()
		tel.Logger.Info("shutting down")
		app.Stop()
	}()

	return app.Serve(fixed.New(cfg.Files.Root))
}
