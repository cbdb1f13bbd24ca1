// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resolver

import (
	"errors"
	"io"
	"io/fs"
	"path"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/config"
	"github.com/z5labs/presets/internal/try"
)

// FSOption configures [FS].
type FSOption func(*fsLookup)

// Dir sets the directory, within the fs.FS, preset modules are read from.
func Dir(dir string) FSOption {
	return func(l *fsLookup) {
		l.dir = dir
	}
}

// Extensions overrides [DefaultExtensions].
func Extensions(exts ...string) FSOption {
	return func(l *fsLookup) {
		l.exts = exts
	}
}

type fsLookup struct {
	fsys fs.FS
	dir  string
	exts []string
}

// FS returns a [Lookup] which reads preset modules from fsys.
//
// A module is stored in a file named after it, e.g. preset-web.yaml,
// and the first extension found wins. See [Template] for how the
// file contents are turned into a preset.
func FS(fsys fs.FS, opts ...FSOption) Lookup {
	l := &fsLookup{
		fsys: fsys,
		dir:  ".",
		exts: DefaultExtensions,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lookup implements the [Lookup] interface.
func (l *fsLookup) Lookup(module string) (presets.Factory, error) {
	for _, ext := range l.exts {
		p := path.Join(l.dir, module+ext)

		src, err := l.read(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		f, err := FormatOf(p)
		if err != nil {
			return nil, err
		}
		return Template(module, f, src), nil
	}
	return nil, NotFoundError{Module: module}
}

func (l *fsLookup) read(p string) (_ []byte, err error) {
	r := config.NewFileReader(l.fsys, p)
	defer try.Close(&err, r)

	return io.ReadAll(r)
}
