// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"io"

	"github.com/z5labs/presets/internal/otelconfig"
)

const serviceName = "presets"

type traceConfig struct {
	Exporter   string
	OTLPTarget string
	GCPProject string
	Ratio      float64
}

func initTracerProvider(ctx context.Context, stderr io.Writer, cfg traceConfig) (otelconfig.Provider, error) {
	var initializer otelconfig.Initializer
	switch cfg.Exporter {
	case "", "none":
		initializer = otelconfig.Noop
	case "stdout":
		initializer = otelconfig.Local(
			otelconfig.ServiceName(serviceName),
			otelconfig.Writer(stderr),
			otelconfig.SampleRatio(cfg.Ratio),
		)
	case "otlp":
		initializer = otelconfig.OTLP(
			otelconfig.ServiceName(serviceName),
			otelconfig.Target(cfg.OTLPTarget),
			otelconfig.SampleRatio(cfg.Ratio),
		)
	case "gcp":
		initializer = otelconfig.GoogleCloud(
			otelconfig.ServiceName(serviceName),
			otelconfig.GoogleCloudProjectId(cfg.GCPProject),
			otelconfig.SampleRatio(cfg.Ratio),
		)
	default:
		return nil, UnknownOptionError{Flag: "trace", Value: cfg.Exporter}
	}
	return initializer.Init(ctx)
}
