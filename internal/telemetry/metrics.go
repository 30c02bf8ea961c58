package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RequestsMetric = "pocket.requests"
	FailuresMetric = "pocket.connection.failures"
	BusyMetric     = "pocket.pool.busy"
)

// Metrics are the server's instruments.
type Metrics struct {
	requests metric.Int64Counter
	failures metric.Int64Counter
	busy     metric.Int64UpDownCounter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter(RequestsMetric,
		metric.WithDescription("The number of responded requests by method and code"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(FailuresMetric,
		metric.WithDescription("The number of connections dropped due to an error"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	busy, err := meter.Int64UpDownCounter(BusyMetric,
		metric.WithDescription("The number of workers handling a connection"),
		metric.WithUnit("{worker}"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests: requests,
		failures: failures,
		busy:     busy,
	}, nil
}

// Request records a responded request.
func (m *Metrics) Request(ctx context.Context, method string, code int) {
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.Int("http.status_code", code),
	))
}

// Failure records a dropped connection.
func (m *Metrics) Failure(ctx context.Context, reason string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// Busy adjusts the number of busy workers.
func (m *Metrics) Busy(ctx context.Context, delta int64) {
	m.busy.Add(ctx, delta)
}
