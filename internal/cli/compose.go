// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/config"
	"github.com/z5labs/presets/internal/httpclient"
	"github.com/z5labs/presets/internal/slogfield"
	"github.com/z5labs/presets/internal/try"
	"github.com/z5labs/presets/resolver"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/z5labs/presets/internal/cli"

type composeConfig struct {
	Props  []string
	Refs   string
	Seed   string
	Dir    string
	Remote string
	Prefix string
	Merge  string
	Output string

	Log   logConfig
	Trace traceConfig
}

func newComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose [ref...]",
		Short: "Compose presets into a single configuration",
		Long: `Compose resolves every preset reference, in order, and merges
their configuration fragments into a single document.

A reference is either a preset name, e.g. "web", or a name followed by
preset specific arguments, e.g. "web:port=8080,debug=true".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}

			cfg := composeConfig{
				Props:  v.GetStringSlice("props"),
				Refs:   v.GetString("refs"),
				Seed:   v.GetString("seed"),
				Dir:    v.GetString("dir"),
				Remote: v.GetString("remote"),
				Prefix: v.GetString("prefix"),
				Merge:  v.GetString("merge"),
				Output: v.GetString("output"),
				Log: logConfig{
					Level:  v.GetString("log-level"),
					Format: v.GetString("log-format"),
					Mask:   v.GetStringSlice("mask"),
				},
				Trace: traceConfig{
					Exporter:   v.GetString("trace"),
					OTLPTarget: v.GetString("otlp-target"),
					GCPProject: v.GetString("gcp-project"),
					Ratio:      v.GetFloat64("trace-sample-ratio"),
				},
			}
			return compose(cmd, cfg, args)
		},
	}

	fs := cmd.Flags()
	fs.StringSlice("props", nil, "yaml, json or toml file of base properties (repeatable, later files override earlier ones)")
	fs.String("refs", "", "yaml file containing a list of preset references, composed before any positional references")
	fs.String("seed", "", "yaml, json or toml file the composition starts from")
	fs.String("dir", "", "directory to load preset modules from")
	fs.String("remote", "", "base url of a remote preset module registry")
	fs.String("prefix", resolver.DefaultPrefix, "prefix mapping preset names to module names")
	fs.String("merge", "deep", "merge strategy: deep, shallow, override or mergo")
	fs.String("output", "yaml", "output format: yaml, json or toml")
	fs.String("log-level", "warn", "log level: debug, info, warn or error")
	fs.String("log-format", "text", "log format: text or json")
	fs.StringSlice("mask", defaultMaskKeys, "property keys whose values are never logged")
	fs.String("trace", "none", "trace exporter: none, stdout, otlp or gcp")
	fs.String("otlp-target", "", "gRPC target of the OpenTelemetry collector")
	fs.String("gcp-project", "", "Google Cloud project to export traces to")
	fs.Float64("trace-sample-ratio", 1, "fraction of runs whose spans are exported")
	return cmd
}

func compose(cmd *cobra.Command, cfg composeConfig, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	handler, err := newLogHandler(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	log := slog.New(handler)

	mergeFunc, err := mergeFuncFor(cfg.Merge)
	if err != nil {
		return err
	}
	encode, err := encoderFor(cfg.Output)
	if err != nil {
		return err
	}

	tp, err := initTracerProvider(ctx, cmd.ErrOrStderr(), cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		serr := tp.Shutdown(shutdownCtx)
		if serr != nil {
			log.WarnContext(ctx, "failed to flush spans", slogfield.Error(serr))
		}
	}()

	ctx, span := tp.Tracer(instrumentationName).Start(ctx, "compose")
	defer span.End()
	defer func() {
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "failed to compose presets", slogfield.Error(err))
	}()

	props, err := readProps(cfg.Props)
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "bound props", propsGroup(props))

	refs, err := readRefs(cfg.Refs, args)
	if err != nil {
		return err
	}

	opts, err := resolverOptions(ctx, cfg, handler, tp)
	if err != nil {
		return err
	}

	var seed config.Map
	if cfg.Seed != "" {
		seed, err = readMap(cfg.Seed)
		if err != nil {
			return err
		}
	}

	m, err := run(props, refs, mergeFunc, seed, opts...)
	if err != nil {
		return err
	}

	log.InfoContext(
		ctx,
		"composed presets",
		slogfield.Int("presets", len(refs)),
		slogfield.String("merge", cfg.Merge),
		slogfield.Strings("props_files", cfg.Props),
	)
	return encode(cmd.OutOrStdout(), m)
}

// run invokes the pipeline and converts any panic raised by a
// preset or merge func into an error.
func run(props presets.Props, refs []any, merge presets.MergeFunc, seed config.Map, opts ...presets.Option) (_ config.Map, err error) {
	defer try.Recover(&err)

	r, err := presets.Bind(props, opts...).NormalizeAny(refs...)
	if err != nil {
		return nil, err
	}

	var reduceOpts []presets.ReduceOption
	if seed != nil {
		reduceOpts = append(reduceOpts, presets.WithSeed(seed))
	}
	return r.Reduce(merge, reduceOpts...)
}

func resolverOptions(ctx context.Context, cfg composeConfig, h slog.Handler, tp trace.TracerProvider) ([]presets.Option, error) {
	var lookups []resolver.Lookup
	if cfg.Dir != "" {
		lookups = append(lookups, resolver.FS(os.DirFS(cfg.Dir)))
	}
	if cfg.Remote != "" {
		client := httpclient.New(
			httpclient.Name("preset-registry"),
			httpclient.LogHandler(h),
			httpclient.Traced(),
			httpclient.TripAfter(5),
			httpclient.Retry(3, 100*time.Millisecond, 2*time.Second),
		)
		l, err := resolver.HTTP(cfg.Remote, resolver.Client(client))
		if err != nil {
			return nil, fmt.Errorf("invalid remote registry url: %w", err)
		}
		lookups = append(lookups, l)
	}
	if len(lookups) == 0 {
		return nil, nil
	}

	l := resolver.Instrument(
		resolver.Chain(lookups...),
		resolver.LogHandler(h),
		resolver.TracerProvider(tp),
		resolver.Context(ctx),
	)
	res := resolver.Namespaced(l, resolver.Prefix(cfg.Prefix))
	return []presets.Option{presets.WithResolver(res)}, nil
}
