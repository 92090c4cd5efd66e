package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the application instruments
type Metrics struct {
	HTTPRequests      metric.Int64Counter
	HTTPDuration      metric.Float64Histogram
	PostsCreated      metric.Int64Counter
	PostsDeleted      metric.Int64Counter
	AccountsConnected metric.Int64Counter
	AccountsExpired   metric.Int64Counter
}

// Setup creates the instruments on a fresh registry and returns the /metrics handler
func Setup(serviceName string) (*Metrics, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	m := &Metrics{}

	m.HTTPRequests, err = meter.Int64Counter(
		"instacal_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPDuration, err = meter.Float64Histogram(
		"instacal_http_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.PostsCreated, err = meter.Int64Counter(
		"instacal_posts_created_total",
		metric.WithDescription("Total number of scheduled posts created"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.PostsDeleted, err = meter.Int64Counter(
		"instacal_posts_deleted_total",
		metric.WithDescription("Total number of posts deleted"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.AccountsConnected, err = meter.Int64Counter(
		"instacal_accounts_connected_total",
		metric.WithDescription("Total number of Instagram accounts connected"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.AccountsExpired, err = meter.Int64Counter(
		"instacal_accounts_expired_total",
		metric.WithDescription("Total number of accounts deactivated by the expiry sweep"),
	)
	if err != nil {
		return nil, nil, err
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return m, handler, nil
}

// RecordHTTPRequest records one served request. path should be the route pattern.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	labels := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)

	m.HTTPRequests.Add(ctx, 1, labels)
	m.HTTPDuration.Record(ctx, duration.Seconds(), labels)
}

// PostCreated counts a created post. source is "function" or "api".
func (m *Metrics) PostCreated(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.PostsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func (m *Metrics) PostDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.PostsDeleted.Add(ctx, 1)
}

func (m *Metrics) AccountConnected(ctx context.Context) {
	if m == nil {
		return
	}
	m.AccountsConnected.Add(ctx, 1)
}

// AccountsSwept counts accounts deactivated by one sweep
func (m *Metrics) AccountsSwept(ctx context.Context, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.AccountsExpired.Add(ctx, n)
}
