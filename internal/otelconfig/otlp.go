// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelconfig

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ErrMissingTarget is returned by the OTLP Initializer when no target is set.
var ErrMissingTarget = errors.New("otlp: a collector target must be provided")

// OTLPConfig configures the OTLP Initializer.
type OTLPConfig struct {
	Common

	// gRPC target of the collector, e.g. localhost:4317.
	Target string `config:"target"`

	DialTimeout time.Duration `config:"dialTimeout"`
}

// OTLPOption configures the OTLP Initializer.
type OTLPOption interface {
	ApplyOTLP(*OTLPConfig)
}

type otlpOptionFunc func(*OTLPConfig)

func (f otlpOptionFunc) ApplyOTLP(cfg *OTLPConfig) {
	f(cfg)
}

// Target sets the gRPC target of the collector.
func Target(target string) OTLPOption {
	return otlpOptionFunc(func(oc *OTLPConfig) {
		oc.Target = target
	})
}

// DialTimeout bounds how long connecting to the collector may take.
func DialTimeout(d time.Duration) OTLPOption {
	return otlpOptionFunc(func(oc *OTLPConfig) {
		oc.DialTimeout = d
	})
}

// OTLP returns an Initializer which exports spans to an
// OpenTelemetry collector over gRPC.
func OTLP(opts ...OTLPOption) Initializer {
	c := OTLPConfig{
		DialTimeout: time.Second,
	}
	for _, opt := range opts {
		opt.ApplyOTLP(&c)
	}
	return c
}

// Init implements the Initializer interface.
func (cfg OTLPConfig) Init(ctx context.Context) (Provider, error) {
	if cfg.Target == "" {
		return nil, ErrMissingTarget
	}

	res, err := cfg.resource(ctx)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		cfg.Target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}

	return cfg.provider(exporter, res), nil
}
