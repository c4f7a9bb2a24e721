package telemetry

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/otlptranslator"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Provider pairs an OpenTelemetry meter provider with the Prometheus
// registry it exports to.
type Provider struct {
	registry *prometheus.Registry
	sdk      *sdkmetric.MeterProvider
	meters   metric.MeterProvider
}

// New creates a Provider from cfg.
func New(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return Nop(), nil
	}

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Join(ErrRegisterFailed, err)
		}
	}

	opts := []otelprom.Option{
		otelprom.WithRegisterer(reg),
		otelprom.WithTranslationStrategy(otlptranslator.UnderscoreEscapingWithSuffixes),
		otelprom.WithoutScopeInfo(),
	}
	if cfg.Namespace != "" {
		opts = append(opts, otelprom.WithNamespace(cfg.Namespace))
	}
	exp, err := otelprom.New(opts...)
	if err != nil {
		return nil, errors.Join(ErrExporterFailed, err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	return &Provider{registry: reg, sdk: mp, meters: mp}, nil
}

// Nop returns a Provider that records nothing.
func Nop() *Provider {
	return &Provider{meters: noop.NewMeterProvider()}
}

// MeterProvider returns the provider instruments are created from.
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.meters
}

// Enabled reports whether metrics are exported.
func (p *Provider) Enabled() bool {
	return p.registry != nil
}

// Handler serves the registry in the Prometheus text format.
func (p *Provider) Handler() http.Handler {
	if p.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown returns a hook that flushes and stops the meter provider.
// Use with hostkit.ShutdownHook().
func (p *Provider) Shutdown() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if p.sdk == nil {
			return nil
		}
		if err := p.sdk.Shutdown(ctx); err != nil {
			return errors.Join(ErrShutdownFailed, err)
		}
		return nil
	}
}
