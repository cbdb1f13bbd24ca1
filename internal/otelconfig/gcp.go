// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelconfig

import (
	"context"

	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel/sdk/resource"
	"google.golang.org/api/option"
)

// GoogleCloudConfig configures the GoogleCloud Initializer.
type GoogleCloudConfig struct {
	Common

	// Empty means the project is detected from the environment.
	ProjectId string `config:"projectId"`
}

// GoogleCloudOption configures the GoogleCloud Initializer.
type GoogleCloudOption interface {
	ApplyGCP(*GoogleCloudConfig)
}

type gcpOptionFunc func(*GoogleCloudConfig)

func (f gcpOptionFunc) ApplyGCP(cfg *GoogleCloudConfig) {
	f(cfg)
}

// GoogleCloudProjectId sets the project compose spans are written to.
func GoogleCloudProjectId(id string) GoogleCloudOption {
	return gcpOptionFunc(func(gcc *GoogleCloudConfig) {
		gcc.ProjectId = id
	})
}

// GoogleCloud returns an Initializer which exports compose spans to
// Cloud Trace, tagging them with the detected GCP resource, e.g. the
// Cloud Build or GKE workload running the CLI.
func GoogleCloud(opts ...GoogleCloudOption) Initializer {
	var gc GoogleCloudConfig
	for _, opt := range opts {
		opt.ApplyGCP(&gc)
	}
	return gc
}

// Init implements the Initializer interface.
func (cfg GoogleCloudConfig) Init(ctx context.Context) (Provider, error) {
	res, err := cfg.resource(ctx, resource.WithDetectors(gcp.NewDetector()))
	if err != nil {
		return nil, err
	}

	exporter, err := texporter.New(
		texporter.WithProjectID(cfg.ProjectId),
		texporter.WithTraceClientOptions([]option.ClientOption{
			option.WithTelemetryDisabled(),
			option.WithUserAgent(cfg.userAgent()),
		}),
	)
	if err != nil {
		return nil, err
	}
	return cfg.provider(exporter, res), nil
}

func (cfg GoogleCloudConfig) userAgent() string {
	if cfg.ServiceName == "" {
		return "presets"
	}
	return cfg.ServiceName
}
