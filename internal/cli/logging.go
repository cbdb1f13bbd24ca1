// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"io"
	"log/slog"

	"github.com/z5labs/presets/internal/maskslog"
	"github.com/z5labs/presets/internal/otelslog"
)

var defaultMaskKeys = []string{"password", "secret", "token"}

type logConfig struct {
	Level  string
	Format string
	Mask   []string
}

func newLogHandler(w io.Writer, cfg logConfig) (slog.Handler, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(cfg.Level))
	if err != nil {
		return nil, UnknownOptionError{Flag: "log-level", Value: cfg.Level}
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch cfg.Format {
	case "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, UnknownOptionError{Flag: "log-format", Value: cfg.Format}
	}

	h = otelslog.NewHandler(h, otelslog.SpanEvents(lvl))
	return maskslog.NewHandler(h, cfg.Mask...), nil
}
