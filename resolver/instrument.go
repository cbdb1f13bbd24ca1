// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/internal/noop"
	"github.com/z5labs/presets/internal/slogfield"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/z5labs/presets/resolver"

// InstrumentOption configures [Instrument].
type InstrumentOption func(*instrumented)

// LogHandler sets the slog.Handler lookups are logged to.
// By default, nothing is logged.
func LogHandler(h slog.Handler) InstrumentOption {
	return func(i *instrumented) {
		i.log = slog.New(h)
	}
}

// TracerProvider sets the trace.TracerProvider spans are recorded with.
// Defaults to the global otel.GetTracerProvider().
func TracerProvider(tp trace.TracerProvider) InstrumentOption {
	return func(i *instrumented) {
		i.tracer = tp.Tracer(instrumentationName)
	}
}

// Context sets the parent context of every span and log record.
func Context(ctx context.Context) InstrumentOption {
	return func(i *instrumented) {
		i.ctx = ctx
	}
}

type instrumented struct {
	ctx    context.Context
	lookup Lookup
	log    *slog.Logger
	tracer trace.Tracer
}

// Instrument wraps l so every lookup is logged and recorded as a span.
// Results and errors of l are returned unmodified.
func Instrument(l Lookup, opts ...InstrumentOption) Lookup {
	i := &instrumented{
		ctx:    context.Background(),
		lookup: l,
		log:    slog.New(noop.LogHandler{}),
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Lookup implements the [Lookup] interface.
func (i *instrumented) Lookup(module string) (presets.Factory, error) {
	ctx, span := i.tracer.Start(
		i.ctx,
		"resolver.Lookup",
		trace.WithAttributes(attribute.String("preset.module", module)),
	)
	defer span.End()

	start := time.Now()
	f, err := i.lookup.Lookup(module)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		i.log.ErrorContext(
			ctx,
			"failed to look up preset module",
			slogfield.Module(module),
			slogfield.Error(err),
		)
		return nil, err
	}

	i.log.InfoContext(
		ctx,
		"looked up preset module",
		slogfield.Module(module),
		slogfield.Duration("latency", time.Since(start)),
	)
	return f, nil
}
