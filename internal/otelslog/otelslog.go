// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog correlates slog records with OpenTelemetry spans.
package otelslog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/z5labs/presets/internal/slogfield"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Handler.
type Option func(*Handler)

// SpanEvents additionally records every record at or above lvl as an
// event on the span in its context, so exported traces of a compose
// run carry its log lines, e.g. which preset modules were looked up.
func SpanEvents(lvl slog.Leveler) Option {
	return func(h *Handler) {
		h.eventLevel = lvl
	}
}

// Handler adds the trace and span id of the span in a record's
// context to the record under the "otel" group.
type Handler struct {
	slog       slog.Handler
	eventLevel slog.Leveler
	groups     []string
	attrs      []slog.Attr
}

// NewHandler wraps h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	oh := &Handler{slog: h}
	for _, opt := range opts {
		opt(oh)
	}
	return oh
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	if h.eventLevel != nil && record.Level >= h.eventLevel.Level() && span.IsRecording() {
		span.AddEvent(record.Message, trace.WithAttributes(h.eventAttributes(record)...))
	}

	r := record.Clone()
	r.AddAttrs(
		slog.Group(
			"otel",
			slogfield.String("trace_id", spanCtx.TraceID().String()),
			slogfield.String("span_id", spanCtx.SpanID().String()),
		),
	)
	return h.slog.Handle(ctx, r)
}

func (h *Handler) eventAttributes(record slog.Record) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(h.attrs)+record.NumAttrs()+1)
	kvs = append(kvs, attribute.String("log.severity", record.Level.String()))
	for _, a := range h.attrs {
		kvs = appendAttr(kvs, "", a)
	}

	prefix := ""
	for _, g := range h.groups {
		prefix += g + "."
	}
	record.Attrs(func(a slog.Attr) bool {
		kvs = appendAttr(kvs, prefix, a)
		return true
	})
	return kvs
}

func appendAttr(kvs []attribute.KeyValue, prefix string, a slog.Attr) []attribute.KeyValue {
	v := a.Value.Resolve()
	k := prefix + a.Key

	switch v.Kind() {
	case slog.KindGroup:
		for _, ga := range v.Group() {
			kvs = appendAttr(kvs, k+".", ga)
		}
		return kvs
	case slog.KindString:
		return append(kvs, attribute.String(k, v.String()))
	case slog.KindInt64:
		return append(kvs, attribute.Int64(k, v.Int64()))
	case slog.KindUint64:
		return append(kvs, attribute.Int64(k, int64(v.Uint64())))
	case slog.KindFloat64:
		return append(kvs, attribute.Float64(k, v.Float64()))
	case slog.KindBool:
		return append(kvs, attribute.Bool(k, v.Bool()))
	default:
		return append(kvs, attribute.String(k, fmt.Sprint(v.Any())))
	}
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	nh.slog = h.slog.WithAttrs(attrs)
	if len(h.groups) == 0 {
		nh.attrs = append(nh.attrs, attrs...)
	}
	return nh
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	nh := h.clone()
	nh.slog = h.slog.WithGroup(name)
	nh.groups = append(nh.groups, name)
	return nh
}

func (h *Handler) clone() *Handler {
	return &Handler{
		slog:       h.slog,
		eventLevel: h.eventLevel,
		groups:     h.groups[:len(h.groups):len(h.groups)],
		attrs:      h.attrs[:len(h.attrs):len(h.attrs)],
	}
}
