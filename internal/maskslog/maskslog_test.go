// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package maskslog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	Message string `json:"msg"`
	Secret  string `json:"secret"`
	Name    string `json:"name"`
	Props   struct {
		Token string `json:"Token"`
		Port  int    `json:"port"`
	} `json:"props"`
}

func TestHandler_Handle(t *testing.T) {
	t.Run("will not mask attrs", func(t *testing.T) {
		t.Run("if no keys are registered", func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil)))
			logger.Info("hello world", slog.String("secret", "super duper secret value"))

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "super duper secret value", r.Secret) {
				return
			}
		})

		t.Run("if the attr key does not match", func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), "password"))
			logger.Info("hello world", slog.String("name", "api"))

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "api", r.Name) {
				return
			}
		})
	})

	t.Run("will mask attrs", func(t *testing.T) {
		t.Run("if the attr key matches", func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), "secret"))
			logger.Info("hello world", slog.String("secret", "super duper secret value"))

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "hello world", r.Message) {
				return
			}
			if !assert.Equal(t, Masked, r.Secret) {
				return
			}
		})

		t.Run("if a nested group attr key matches case insensitively", func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), "token"))
			logger.Info(
				"hello world",
				slog.Group("props", slog.String("Token", "abc"), slog.Int("port", 8080)),
			)

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, Masked, r.Props.Token) {
				return
			}
			if !assert.Equal(t, 8080, r.Props.Port) {
				return
			}
		})
	})
}

func TestHandler_Handle_maps(t *testing.T) {
	t.Run("will mask keys of map values", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), "password"))
		logger.Info(
			"bound props",
			slog.Any("db", map[string]any{
				"host": "localhost",
				"auth": map[string]any{"password": "hunter2"},
			}),
		)

		var r struct {
			DB struct {
				Host string `json:"host"`
				Auth struct {
					Password string `json:"password"`
				} `json:"auth"`
			} `json:"db"`
		}
		err := json.Unmarshal(buf.Bytes(), &r)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "localhost", r.DB.Host) {
			return
		}
		if !assert.Equal(t, Masked, r.DB.Auth.Password) {
			return
		}
		if !assert.NotContains(t, buf.String(), "hunter2") {
			return
		}
	})
}

func TestHandler_WithAttrs(t *testing.T) {
	t.Run("will mask attrs", func(t *testing.T) {
		t.Run("if the attr key matches", func(t *testing.T) {
			var buf bytes.Buffer
			var h slog.Handler = NewHandler(slog.NewJSONHandler(&buf, nil), "secret")
			h = h.WithAttrs([]slog.Attr{slog.String("secret", "super duper secret value")})

			slog.New(h).Info("hello world")

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, Masked, r.Secret) {
				return
			}
		})
	})
}
