// SPDX-License-Identifier: Apache-2.0

// Package download fetches the kited installer package over HTTP. The
// lifecycle manager consumes it through the Downloader interface so tests can
// substitute a fake.
package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var nolog = zerolog.Nop()

// DefaultTimeout bounds a single package download end to end.
const DefaultTimeout = 10 * time.Minute

// Downloader fetches the resource at url and stages it at destination,
// replacing any previous file there.
type Downloader interface {
	Fetch(ctx context.Context, url, destination string) error
}

type httpDownloader struct {
	client *http.Client
	logger *zerolog.Logger
}

// Option allows injecting parameters for the Downloader.
type Option = func(d *httpDownloader)

// WithTimeout allows overriding the whole-download timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *httpDownloader) {
		if timeout > 0 {
			d.client.Timeout = timeout
		}
	}
}

// WithLogger allows injecting a logger for the Downloader.
func WithLogger(logger *zerolog.Logger) Option {
	return func(d *httpDownloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDownloader creates a Downloader backed by net/http.
func NewDownloader(opts ...Option) Downloader {
	d := &httpDownloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: &nolog,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *httpDownloader) Fetch(ctx context.Context, url, destination string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDownloadError(err, url, 0)
	}

	d.logger.Debug().Str("url", url).Str("destination", destination).Msg("Downloading package")

	resp, err := d.client.Do(req)
	if err != nil {
		return NewDownloadError(err, url, 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewDownloadError(nil, url, resp.StatusCode)
	}

	out, err := os.Create(destination)
	if err != nil {
		return NewDownloadError(err, url, 0)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return NewDownloadError(err, url, 0)
	}

	d.logger.Debug().Str("url", url).Int64("bytes", written).Msg("Download complete")

	return nil
}
