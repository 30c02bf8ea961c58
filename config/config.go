package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unsafe"

	json "github.com/json-iterator/go"
)

type (
	NET struct {
		// Addr is the host:port the listener is bound to.
		Addr string
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket. Requests longer than that are read in multiple calls.
		ReadBufferSize int
		// MaxRequestSize limits the request line, headers and body altogether. Requests
		// exceeding it are answered with 413 Request Entity Too Large.
		MaxRequestSize int
		// ReadTimeout limits how long a worker waits for the request to arrive. Zero
		// disables the deadline.
		ReadTimeout time.Duration `test:"nullable"`
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}

	Pool struct {
		// Workers is the number of connections handled concurrently.
		Workers int
		// QueueSize is the number of accepted connections allowed to wait for a free worker.
		// When the queue is full, the accept loop blocks until a worker frees up a seat.
		QueueSize int `test:"nullable"`
	}

	Files struct {
		// Root is the directory served by the /files route. Empty Root makes the route fail
		// with an internal error.
		Root string `test:"nullable"`
	}

	HTTP struct {
		// RespondOnError controls whether malformed requests are answered with an error
		// response before closing the connection. Otherwise, the connection is closed silently.
		RespondOnError bool
		// DumpMessages logs every parsed request and every built response at debug level.
		DumpMessages bool `test:"nullable"`
	}

	Log struct {
		// Level is one of debug, info, warn or error.
		Level string
		// Format is either text or json.
		Format string
	}

	Telemetry struct {
		// Enabled turns on OTLP exporters for traces, metrics and logs. Exporters are configured
		// by the standard OTEL_EXPORTER_OTLP_* environment variables.
		Enabled bool `test:"nullable"`
		// ServiceName is reported as the instrumentation scope name.
		ServiceName string
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	NET       NET
	Pool      Pool
	Files     Files
	HTTP      HTTP
	Log       Log
	Telemetry Telemetry
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			Addr:                      "127.0.0.1:4221",
			ReadBufferSize:            1024,
			MaxRequestSize:            1024 * 1024,
			ReadTimeout:               90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		Pool: Pool{
			Workers:   8,
			QueueSize: 64,
		},
		HTTP: HTTP{
			RespondOnError: true,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Telemetry: Telemetry{
			ServiceName: "pocket",
		},
	}
}

var strict = json.Config{
	DisallowUnknownFields: true,
}.Froze()

func init() {
	// durations are accepted both as a number of nanoseconds and as a string like "90s"
	json.RegisterTypeDecoderFunc("time.Duration", func(ptr unsafe.Pointer, iter *json.Iterator) {
		switch iter.WhatIsNext() {
		case json.StringValue:
			d, err := time.ParseDuration(iter.ReadString())
			if err != nil {
				iter.ReportError("time.Duration", err.Error())
				return
			}

			*(*time.Duration)(ptr) = d
		default:
			*(*time.Duration)(ptr) = time.Duration(iter.ReadInt64())
		}
	})
}

// Load reads a JSON document from the path on top of defaults. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return Parse(data)
}

// Parse decodes a JSON document on top of defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := strict.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, cfg.Validate()
}

var (
	ErrNoWorkers       = errors.New("config: at least one worker is required")
	ErrNegativeQueue   = errors.New("config: queue size must not be negative")
	ErrReadBufferSize  = errors.New("config: read buffer size must be positive")
	ErrMaxRequestSize  = errors.New("config: max request size must not be lower than the read buffer size")
	ErrInterruptPeriod = errors.New("config: accept loop interrupt period must be positive")
)

// Validate reports the first setting making the server unable to start.
func (c *Config) Validate() error {
	switch {
	case c.Pool.Workers < 1:
		return ErrNoWorkers
	case c.Pool.QueueSize < 0:
		return ErrNegativeQueue
	case c.NET.ReadBufferSize < 1:
		return ErrReadBufferSize
	case c.NET.MaxRequestSize < c.NET.ReadBufferSize:
		return ErrMaxRequestSize
	case c.NET.AcceptLoopInterruptPeriod <= 0:
		return ErrInterruptPeriod
	}

	return nil
}
