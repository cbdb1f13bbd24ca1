// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/internal/httpclient"
	"github.com/z5labs/presets/internal/try"
)

// StatusCodeError occurs when a remote registry responds to a module
// request with a non 2xx status code other than 404.
type StatusCodeError struct {
	Module     string
	StatusCode int
}

// Error implements the error interface.
func (e StatusCodeError) Error() string {
	return fmt.Sprintf("unexpected status code fetching preset module %s: %d", e.Module, e.StatusCode)
}

// HTTPOption configures [HTTP].
type HTTPOption func(*httpLookup)

// Client sets the http.Client modules are fetched with.
func Client(c *http.Client) HTTPOption {
	return func(l *httpLookup) {
		l.client = c
	}
}

// Extension sets the file extension appended to module names.
// Defaults to ".yaml".
func Extension(ext string) HTTPOption {
	return func(l *httpLookup) {
		l.ext = ext
	}
}

// RequestTimeout bounds how long fetching a single module may take.
func RequestTimeout(d time.Duration) HTTPOption {
	return func(l *httpLookup) {
		l.timeout = d
	}
}

type httpLookup struct {
	base    *url.URL
	client  *http.Client
	ext     string
	timeout time.Duration
}

// HTTP returns a [Lookup] which fetches preset modules from a remote
// registry, e.g. GET https://example.com/presets/preset-web.yaml.
//
// Each call to Lookup performs exactly one request, modulo the retries
// of the underlying client. Unless [Client] is given, modules are fetched
// with a client which retries server errors and trips a circuit breaker
// after 5 consecutive failures.
func HTTP(baseURL string, opts ...HTTPOption) (Lookup, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	l := &httpLookup{
		base: base,
		ext:  ".yaml",
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = httpclient.New(
			httpclient.Name("preset-registry"),
			httpclient.Traced(),
			httpclient.TripAfter(5),
			httpclient.Retry(3, 100*time.Millisecond, 2*time.Second),
		)
	}
	return l, nil
}

// Lookup implements the [Lookup] interface.
func (l *httpLookup) Lookup(module string) (presets.Factory, error) {
	u := l.base.JoinPath(module + l.ext)

	f, err := FormatOf(u.Path)
	if err != nil {
		return nil, err
	}

	src, err := l.fetch(module, u)
	if err != nil {
		return nil, err
	}
	return Template(module, f, src), nil
}

func (l *httpLookup) fetch(module string, u *url.URL) (_ []byte, err error) {
	ctx := context.Background()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NotFoundError{Module: module}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, StatusCodeError{Module: module, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
