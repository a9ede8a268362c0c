// SPDX-License-Identifier: Apache-2.0

package kite

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kiteco/kited-manager/internal/download"
	"github.com/kiteco/kited-manager/pkg/exc"
	"github.com/kiteco/kited-manager/pkg/fsx"
)

var nolog = zerolog.Nop()

const (
	defaultVerifyAttempts = 3
	defaultVerifyBackoff  = 500 * time.Millisecond
	lockRetryDelay        = 250 * time.Millisecond
)

// Manager drives the install and run lifecycle of the kited daemon.
//
// The probe methods (IsInstalled, IsInitiallyInstalled, IsRunning) are
// idempotent and side-effect free: they recompute from the filesystem and
// process table on every call and return nil on success or a typed error
// describing what is missing. Failed operations leave the host in a state
// where the same call can simply be retried.
type Manager interface {
	// IsInstalled returns nil iff the daemon binary exists.
	IsInstalled(ctx context.Context) error
	// IsInitiallyInstalled returns nil iff the current version link exists,
	// is a readable symlink, and points at a versioned release.
	IsInitiallyInstalled(ctx context.Context) error
	// Download stages the package from url; with opts.Install it continues
	// into the install pipeline.
	Download(ctx context.Context, url string, opts DownloadOptions) error
	// Install runs the install pipeline against the staged package.
	Install(ctx context.Context, opts InstallOptions) error
	// IsRunning returns nil iff a kited process is visible in the process table.
	IsRunning(ctx context.Context) error
	// Launch starts the daemon if it is installed and not already running.
	Launch(ctx context.Context) error
	// State derives the current installation state.
	State(ctx context.Context) InstallationState
}

type manager struct {
	runner         exc.Runner
	fs             fsx.Manager
	downloader     download.Downloader
	logger         *zerolog.Logger
	paths          Paths
	verifyAttempts int
	verifyBackoff  time.Duration
}

// Option allows injecting parameters for the Manager.
type Option = func(m *manager)

// WithRunner allows injecting a command runner for the Manager.
func WithRunner(runner exc.Runner) Option {
	return func(m *manager) {
		if runner != nil {
			m.runner = runner
		}
	}
}

// WithFileSystemManager allows injecting a filesystem manager for the Manager.
func WithFileSystemManager(fs fsx.Manager) Option {
	return func(m *manager) {
		if fs != nil {
			m.fs = fs
		}
	}
}

// WithDownloader allows injecting a package downloader for the Manager.
func WithDownloader(d download.Downloader) Option {
	return func(m *manager) {
		if d != nil {
			m.downloader = d
		}
	}
}

// WithLogger allows injecting a logger for the Manager.
func WithLogger(logger *zerolog.Logger) Option {
	return func(m *manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithPaths allows overriding the filesystem locations, mostly for tests.
func WithPaths(paths Paths) Option {
	return func(m *manager) {
		m.paths = paths
	}
}

// WithVerifyBudget allows overriding the post-install verification retry
// budget.
func WithVerifyBudget(attempts int, backoff time.Duration) Option {
	return func(m *manager) {
		if attempts > 0 {
			m.verifyAttempts = attempts
		}
		if backoff >= 0 {
			m.verifyBackoff = backoff
		}
	}
}

// NewManager creates a Manager. Collaborators not supplied through options
// are constructed with their defaults.
func NewManager(opts ...Option) (Manager, error) {
	m := &manager{
		logger:         &nolog,
		paths:          DefaultPaths(),
		verifyAttempts: defaultVerifyAttempts,
		verifyBackoff:  defaultVerifyBackoff,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.runner == nil {
		m.runner = exc.NewRunner(exc.WithLogger(m.logger))
	}

	if m.fs == nil {
		fs, err := fsx.NewManager()
		if err != nil {
			return nil, err
		}
		m.fs = fs
	}

	if m.downloader == nil {
		m.downloader = download.NewDownloader(download.WithLogger(m.logger))
	}

	return m, nil
}
