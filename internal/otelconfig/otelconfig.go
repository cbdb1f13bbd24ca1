// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelconfig builds the trace.TracerProvider spans of the
// presets CLI are exported with.
package otelconfig

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider is a trace.TracerProvider which must be shutdown
// to flush any buffered spans.
type Provider interface {
	trace.TracerProvider

	Shutdown(context.Context) error
}

// Initializer creates a Provider.
type Initializer interface {
	Init(context.Context) (Provider, error)
}

// InitializerFunc is a functional implementation of the Initializer interface.
type InitializerFunc func(context.Context) (Provider, error)

// Init implements the Initializer interface.
func (f InitializerFunc) Init(ctx context.Context) (Provider, error) {
	return f(ctx)
}

// Common is shared by every exporting Initializer.
type Common struct {
	ServiceName string `config:"serviceName"`

	// Fraction of compose runs whose spans are exported. Values
	// outside (0, 1) sample every run.
	SampleRatio float64 `config:"sampleRatio"`
}

func (c Common) sampler() sdktrace.Sampler {
	if c.SampleRatio <= 0 || c.SampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SampleRatio))
}

func (c Common) provider(exporter sdktrace.SpanExporter, res *resource.Resource) Provider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(c.sampler()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
}

func (c Common) resource(ctx context.Context, opts ...resource.Option) (*resource.Resource, error) {
	opts = append(
		opts,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceName(c.ServiceName)),
	)
	return resource.New(ctx, opts...)
}

// CommonOption configures any exporting Initializer.
type CommonOption interface {
	GoogleCloudOption
	LocalOption
	OTLPOption
}

type commonOptionFunc func(*Common)

func (f commonOptionFunc) ApplyGCP(cfg *GoogleCloudConfig) {
	f(&cfg.Common)
}

func (f commonOptionFunc) ApplyOTLP(cfg *OTLPConfig) {
	f(&cfg.Common)
}

func (f commonOptionFunc) ApplyLocal(cfg *LocalConfig) {
	f(&cfg.Common)
}

// ServiceName sets the service.name resource attribute.
func ServiceName(name string) CommonOption {
	return commonOptionFunc(func(c *Common) {
		c.ServiceName = name
	})
}

type noopProvider struct {
	noop.TracerProvider
}

func (noopProvider) Shutdown(context.Context) error { return nil }

// SampleRatio sets the fraction of compose runs whose spans are exported.
func SampleRatio(ratio float64) CommonOption {
	return commonOptionFunc(func(c *Common) {
		c.SampleRatio = ratio
	})
}

// Noop never records spans.
var Noop Initializer = InitializerFunc(func(context.Context) (Provider, error) {
	return noopProvider{TracerProvider: noop.NewTracerProvider()}, nil
})

// LocalConfig configures the Local Initializer.
type LocalConfig struct {
	Common

	Out io.Writer
}

// LocalOption configures the Local Initializer.
type LocalOption interface {
	ApplyLocal(*LocalConfig)
}

type localOptionFunc func(*LocalConfig)

func (f localOptionFunc) ApplyLocal(cfg *LocalConfig) {
	f(cfg)
}

// Writer sets where Local writes spans to. Defaults to os.Stdout.
func Writer(w io.Writer) LocalOption {
	return localOptionFunc(func(lc *LocalConfig) {
		lc.Out = w
	})
}

// Local returns an Initializer which pretty prints spans as JSON.
func Local(opts ...LocalOption) Initializer {
	cfg := LocalConfig{
		Out: os.Stdout,
	}
	for _, opt := range opts {
		opt.ApplyLocal(&cfg)
	}
	return cfg
}

// Init implements the Initializer interface.
func (cfg LocalConfig) Init(ctx context.Context) (Provider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(cfg.Out),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}

	res, err := cfg.resource(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.provider(exporter, res), nil
}
