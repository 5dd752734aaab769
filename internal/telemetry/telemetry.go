// Package telemetry sets up OpenTelemetry metrics for the server, exported in Prometheus format.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config controls whether telemetry is collected and how the service identifies itself.
type Config struct {
	ServiceName string
	Enabled     bool
}

// Providers holds the initialized OpenTelemetry providers.
// When telemetry is disabled, Meter is a no-op meter and no metrics endpoint is available.
type Providers struct {
	Meter metric.Meter

	enabled       bool
	serviceName   string
	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
}

// Init creates the meter provider and the Prometheus exporter backing it.
// The meter provider is also installed as the global one so that instrumentation
// libraries (eg- otelgin) report through it.
func Init(ctx context.Context, conf *Config) (*Providers, error) {
	if conf == nil || !conf.Enabled {
		name := ""
		if conf != nil {
			name = conf.ServiceName
		}
		return &Providers{
			Meter:       noop.NewMeterProvider().Meter(name),
			serviceName: name,
		}, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", conf.ServiceName))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return &Providers{
		Meter:         mp.Meter(conf.ServiceName),
		enabled:       true,
		serviceName:   conf.ServiceName,
		meterProvider: mp,
		registry:      registry,
	}, nil
}

// IsEnabled returns true if telemetry is being collected.
func (p *Providers) IsEnabled() bool {
	return p.enabled
}

// ServiceName returns the name the service reports itself as.
func (p *Providers) ServiceName() string {
	return p.serviceName
}

// MetricsHandler serves the collected metrics in Prometheus text format.
// It responds with 404 when telemetry is disabled.
func (p *Providers) MetricsHandler() http.Handler {
	if !p.enabled {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
