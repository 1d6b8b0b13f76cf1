package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ConnectivityProber reports live broker transport state, observed by
// the connectivity gauge on every scrape
type ConnectivityProber interface {
	IsConnected() bool
}

// Recorder provides OpenTelemetry metrics for the gateway following
// OTel standards, exported in Prometheus format
type Recorder struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	received        metric.Int64Counter
	published       metric.Int64Counter
	publishFailed   metric.Int64Counter
	authFailed      metric.Int64Counter
	publishDuration metric.Float64Histogram
	connectivity    metric.Int64ObservableGauge
}

// NewRecorder creates a new metrics recorder with a Prometheus exporter
func NewRecorder(prober ConnectivityProber) (*Recorder, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"webhook-gateway",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	r := &Recorder{
		meterProvider: meterProvider,
		meter:         meter,
	}

	if err := r.registerInstruments(prober); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return r, nil
}

// registerInstruments creates and registers all metric instruments
func (r *Recorder) registerInstruments(prober ConnectivityProber) error {
	var err error

	r.received, err = r.meter.Int64Counter(
		"webhook.received",
		metric.WithDescription("Number of webhook deliveries received per provider"),
		metric.WithUnit("{webhooks}"),
	)
	if err != nil {
		return fmt.Errorf("creating received counter: %w", err)
	}

	r.published, err = r.meter.Int64Counter(
		"webhook.published",
		metric.WithDescription("Number of webhooks published to the broker per provider"),
		metric.WithUnit("{webhooks}"),
	)
	if err != nil {
		return fmt.Errorf("creating published counter: %w", err)
	}

	r.publishFailed, err = r.meter.Int64Counter(
		"webhook.publish.failed",
		metric.WithDescription("Number of webhooks dropped after retry exhaustion per provider"),
		metric.WithUnit("{webhooks}"),
	)
	if err != nil {
		return fmt.Errorf("creating publish failed counter: %w", err)
	}

	r.authFailed, err = r.meter.Int64Counter(
		"webhook.auth.failed",
		metric.WithDescription("Number of deliveries rejected for a bad signature or token"),
		metric.WithUnit("{webhooks}"),
	)
	if err != nil {
		return fmt.Errorf("creating auth failed counter: %w", err)
	}

	r.publishDuration, err = r.meter.Float64Histogram(
		"webhook.publish.duration",
		metric.WithDescription("End-to-end publish latency including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating publish duration histogram: %w", err)
	}

	r.connectivity, err = r.meter.Int64ObservableGauge(
		"nats.connected",
		metric.WithDescription("Broker connectivity: 1 when the transport is live"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			var up int64
			if prober != nil && prober.IsConnected() {
				up = 1
			}
			observer.Observe(up)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating connectivity gauge: %w", err)
	}

	return nil
}

// WebhookReceived counts one inbound delivery
func (r *Recorder) WebhookReceived(ctx context.Context, provider string) {
	if r == nil {
		return
	}
	r.received.Add(ctx, 1, metric.WithAttributes(
		attribute.String("webhook.provider", provider),
	))
}

// WebhookPublished counts one successful publish and its latency
func (r *Recorder) WebhookPublished(ctx context.Context, provider, event string, duration time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("webhook.provider", provider),
		attribute.String("webhook.event", event),
	)
	r.published.Add(ctx, 1, attrs)
	r.publishDuration.Record(ctx, duration.Seconds(), attrs)
}

// PublishFailed counts one delivery dropped after retry exhaustion
func (r *Recorder) PublishFailed(ctx context.Context, provider string) {
	if r == nil {
		return
	}
	r.publishFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("webhook.provider", provider),
	))
}

// AuthFailed counts one rejected signature or token
func (r *Recorder) AuthFailed(ctx context.Context, provider string) {
	if r == nil {
		return
	}
	r.authFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("webhook.provider", provider),
	))
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (r *Recorder) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.meterProvider != nil {
		return r.meterProvider.Shutdown(ctx)
	}
	return nil
}
