// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelconfig

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoop(t *testing.T) {
	t.Run("will not record spans", func(t *testing.T) {
		tp, err := Noop.Init(context.Background())
		if !assert.Nil(t, err) {
			return
		}

		_, span := tp.Tracer("test").Start(context.Background(), "test")
		span.End()
		if !assert.False(t, span.IsRecording()) {
			return
		}
		if !assert.Nil(t, tp.Shutdown(context.Background())) {
			return
		}
	})
}

func TestLocal(t *testing.T) {
	t.Run("will write spans to the configured writer", func(t *testing.T) {
		t.Run("once the provider is shutdown", func(t *testing.T) {
			var buf bytes.Buffer
			tp, err := Local(Writer(&buf), ServiceName("presets")).Init(context.Background())
			if !assert.Nil(t, err) {
				return
			}

			_, span := tp.Tracer("test").Start(context.Background(), "compose")
			span.End()

			err = tp.Shutdown(context.Background())
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Contains(t, buf.String(), `"Name": "compose"`) {
				return
			}
			if !assert.Contains(t, buf.String(), "presets") {
				return
			}
		})
	})
}

func TestOTLP(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if no target is given", func(t *testing.T) {
			_, err := OTLP().Init(context.Background())
			if !assert.ErrorIs(t, err, ErrMissingTarget) {
				return
			}
		})
	})
}

func TestSampleRatio(t *testing.T) {
	t.Run("will sample every compose run", func(t *testing.T) {
		for _, ratio := range []float64{0, -1, 1, 2} {
			var cfg LocalConfig
			SampleRatio(ratio).ApplyLocal(&cfg)

			if !assert.Equal(t, "AlwaysOnSampler", cfg.sampler().Description()) {
				return
			}
		}
	})

	t.Run("will sample a fraction of compose runs", func(t *testing.T) {
		t.Run("if the ratio is between 0 and 1", func(t *testing.T) {
			var cfg OTLPConfig
			SampleRatio(0.25).ApplyOTLP(&cfg)

			if !assert.Contains(t, cfg.sampler().Description(), "TraceIDRatioBased{0.25}") {
				return
			}
		})
	})

	t.Run("will drop spans not sampled", func(t *testing.T) {
		var buf bytes.Buffer
		tp, err := Local(Writer(&buf), SampleRatio(1e-12)).Init(context.Background())
		if !assert.Nil(t, err) {
			return
		}

		_, span := tp.Tracer("test").Start(context.Background(), "compose")
		span.End()

		err = tp.Shutdown(context.Background())
		if !assert.Nil(t, err) {
			return
		}
		if !assert.NotContains(t, buf.String(), `"Name": "compose"`) {
			return
		}
	})
}

func TestGoogleCloudConfig_userAgent(t *testing.T) {
	t.Run("will default to presets", func(t *testing.T) {
		var cfg GoogleCloudConfig
		GoogleCloudProjectId("my-project").ApplyGCP(&cfg)

		if !assert.Equal(t, "my-project", cfg.ProjectId) {
			return
		}
		if !assert.Equal(t, "presets", cfg.userAgent()) {
			return
		}
	})

	t.Run("will use the service name", func(t *testing.T) {
		var cfg GoogleCloudConfig
		ServiceName("presets-ci").ApplyGCP(&cfg)

		if !assert.Equal(t, "presets-ci", cfg.userAgent()) {
			return
		}
	})
}
