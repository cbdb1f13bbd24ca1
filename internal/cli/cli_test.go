// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/config"
	"github.com/z5labs/presets/internal/maskslog"
	"github.com/z5labs/presets/internal/try"
	"github.com/z5labs/presets/merge"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	err := os.WriteFile(p, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), &stdout, &stderr, args...)
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	t.Run("will print the build version", func(t *testing.T) {
		stdout, _, err := execute("version")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, Version+"\n", stdout) {
			return
		}
	})
}

func TestCompose(t *testing.T) {
	t.Run("will compose presets loaded from a directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "preset-base.yaml", "name: {{ .Props.name }}\nhttp:\n  port: 80\n  host: localhost\n")
		writeFile(t, dir, "preset-http.json", `{"http": {"port": {{ .Args.port }}}}`)
		props := writeFile(t, dir, "props.yaml", "name: api\n")

		stdout, _, err := execute(
			"compose",
			"--dir", dir,
			"--props", props,
			"--output", "json",
			"base", "http:port=8080",
		)
		if !assert.Nil(t, err) {
			return
		}

		var out map[string]any
		err = json.Unmarshal([]byte(stdout), &out)
		if !assert.Nil(t, err) {
			return
		}

		expected := map[string]any{
			"name": "api",
			"http": map[string]any{
				"port": float64(8080),
				"host": "localhost",
			},
		}
		if !assert.Equal(t, expected, out) {
			return
		}
	})

	t.Run("will compose refs from a refs file before positional refs", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "acme-level.yaml", "level: {{ .Args.level }}\n")
		refs := writeFile(t, dir, "refs.yaml", "- name: level\n  args:\n    level: debug\n")

		stdout, _, err := execute(
			"compose",
			"--dir", dir,
			"--prefix", "acme-",
			"--refs", refs,
			"--output", "json",
			"level:level=info",
		)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.JSONEq(t, `{"level": "info"}`, stdout) {
			return
		}
	})

	t.Run("will start from the seed", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "preset-a.toml", "a = 1\n")
		seed := writeFile(t, dir, "seed.json", `{"a": 0, "b": 2}`)

		stdout, _, err := execute(
			"compose",
			"--dir", dir,
			"--seed", seed,
			"--output", "json",
			"a",
		)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.JSONEq(t, `{"a": 1, "b": 2}`, stdout) {
			return
		}
	})

	t.Run("will compose presets fetched from a remote registry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/preset-remote.yaml" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte("remote: true\n"))
		}))
		defer srv.Close()

		stdout, _, err := execute("compose", "--remote", srv.URL, "remote")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "remote: true\n", stdout) {
			return
		}
	})

	t.Run("will mask sensitive props in logs", func(t *testing.T) {
		dir := t.TempDir()
		props := writeFile(t, dir, "props.yaml", "name: api\npassword: hunter2\n")

		_, stderr, err := execute(
			"compose",
			"--props", props,
			"--log-level", "debug",
			"--log-format", "json",
		)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Contains(t, stderr, maskslog.Masked) {
			return
		}
		if !assert.NotContains(t, stderr, "hunter2") {
			return
		}
	})

	t.Run("will let later props files override earlier ones", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "preset-db.yaml", "db: {{ .Props.db.host }}\nname: {{ .Props.name }}\n")
		base := writeFile(t, dir, "base.yaml", "name: api\ndb: sqlite\n")
		override := writeFile(t, dir, "override.toml", "[db]\nhost = \"db.internal\"\n")

		stdout, _, err := execute(
			"compose",
			"--dir", dir,
			"--props", base,
			"--props", override,
			"--output", "json",
			"db",
		)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.JSONEq(t, `{"db": "db.internal", "name": "api"}`, stdout) {
			return
		}
	})

	t.Run("will let prop env vars override nested props", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "preset-db.yaml", "db: {{ .Props.db.host }}\n")
		base := writeFile(t, dir, "base.yaml", "db: sqlite\n")
		t.Setenv(PropEnvPrefix+"DB__HOST", "db.internal")

		stdout, _, err := execute(
			"compose",
			"--dir", dir,
			"--props", base,
			"--output", "json",
			"db",
		)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.JSONEq(t, `{"db": "db.internal"}`, stdout) {
			return
		}
	})

	t.Run("will mask sensitive props nested in tables", func(t *testing.T) {
		dir := t.TempDir()
		props := writeFile(t, dir, "props.yaml", "db:\n  host: localhost\n  auth:\n    password: hunter2\n")

		_, stderr, err := execute(
			"compose",
			"--props", props,
			"--log-level", "debug",
			"--log-format", "json",
		)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Contains(t, stderr, "localhost") {
			return
		}
		if !assert.Contains(t, stderr, maskslog.Masked) {
			return
		}
		if !assert.NotContains(t, stderr, "hunter2") {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a named ref is given without any preset source", func(t *testing.T) {
			_, _, err := execute("compose", "web")
			if !assert.ErrorIs(t, err, presets.ErrNoResolver) {
				return
			}
		})

		t.Run("if the merge strategy is unknown", func(t *testing.T) {
			_, _, err := execute("compose", "--merge", "zip")

			var oerr UnknownOptionError
			if !assert.ErrorAs(t, err, &oerr) {
				return
			}
			if !assert.Equal(t, "merge", oerr.Flag) {
				return
			}
		})

		t.Run("if the output format is unknown", func(t *testing.T) {
			_, _, err := execute("compose", "--output", "xml")
			if !assert.ErrorAs(t, err, &UnknownOptionError{}) {
				return
			}
		})

		t.Run("if the refs file is not a list", func(t *testing.T) {
			refs := writeFile(t, t.TempDir(), "refs.yaml", "name: web\n")

			_, _, err := execute("compose", "--refs", refs)
			if !assert.ErrorAs(t, err, &InvalidRefsFileError{}) {
				return
			}
		})

		t.Run("if a ref in the refs file has an invalid type", func(t *testing.T) {
			refs := writeFile(t, t.TempDir(), "refs.yaml", "- [a, b]\n")

			_, _, err := execute("compose", "--refs", refs)
			if !assert.ErrorIs(t, err, presets.ErrInvalidPresetType) {
				return
			}
		})
	})
}

func TestParseArgRef(t *testing.T) {
	t.Run("will parse a bare name", func(t *testing.T) {
		ref, err := parseArgRef("web")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, presets.Use("web"), ref) {
			return
		}
	})

	t.Run("will decode argument values as yaml scalars", func(t *testing.T) {
		ref, err := parseArgRef("web:port=8080,debug=true,host=localhost,empty=")
		if !assert.Nil(t, err) {
			return
		}

		expected := presets.UseWith("web", presets.Props{
			"port":  8080,
			"debug": true,
			"host":  "localhost",
			"empty": "",
		})
		if !assert.Equal(t, expected, ref) {
			return
		}
	})

	t.Run("will return a MalformedRefError", func(t *testing.T) {
		testCases := []string{
			":port=8080",
			"web:port",
			"web:=8080",
		}

		for _, s := range testCases {
			t.Run("if the ref is "+strings.TrimSpace(s), func(t *testing.T) {
				_, err := parseArgRef(s)
				if !assert.ErrorAs(t, err, &MalformedRefError{}) {
					return
				}
			})
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("will return a PanicError", func(t *testing.T) {
		t.Run("if a preset panics", func(t *testing.T) {
			refs := []any{
				presets.Func(func(presets.Props) (config.Map, error) {
					panic("boom")
				}),
			}

			_, err := run(nil, refs, merge.Deep, nil)
			if !assert.ErrorAs(t, err, &try.PanicError{}) {
				return
			}
		})
	})
}
