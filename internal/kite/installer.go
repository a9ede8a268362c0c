// SPDX-License-Identifier: Apache-2.0

package kite

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const lockTimeout = 30 * time.Second

// lockPath derives the install lock file from the staged package path.
func (m *manager) lockPath() string {
	pkg := m.paths.StagedPackage
	ext := filepath.Ext(pkg)
	if len(ext) > 0 && len(ext) < len(pkg) {
		return strings.TrimSuffix(pkg, ext) + ".lock"
	}

	return pkg + ".lock"
}

// acquireInstallLock serializes Download and Install across processes (and
// goroutines) with a file lock keyed on the staged package path. The caller
// must release the returned lock.
func (m *manager) acquireInstallLock(ctx context.Context) (*flock.Flock, error) {
	fileLock := flock.New(m.lockPath())

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return nil, NewConcurrentInstallError(err, m.paths.StagedPackage)
	}
	if !locked {
		return nil, NewConcurrentInstallError(nil, m.paths.StagedPackage)
	}

	return fileLock, nil
}

// installLockHeld reports whether some other invocation currently holds the
// install lock.
func (m *manager) installLockHeld() bool {
	fileLock := flock.New(m.lockPath())

	locked, err := fileLock.TryLock()
	if err != nil {
		return false
	}
	if !locked {
		return true
	}

	_ = fileLock.Unlock()

	return false
}

func (m *manager) Download(ctx context.Context, url string, opts DownloadOptions) error {
	// the lock file sits next to the staged package; the staging directory
	// must exist before either is created
	if err := m.fs.CreateDirectory(filepath.Dir(m.paths.StagedPackage), true); err != nil {
		return err
	}

	fileLock, err := m.acquireInstallLock(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = fileLock.Unlock() }()

	m.logger.Info().Str("url", url).Str("destination", m.paths.StagedPackage).Msg("Staging kited package")

	if err := m.downloader.Fetch(ctx, url, m.paths.StagedPackage); err != nil {
		return err
	}

	if !opts.Install {
		return nil
	}

	return m.install(ctx, opts.Hooks)
}

func (m *manager) Install(ctx context.Context, opts InstallOptions) error {
	fileLock, err := m.acquireInstallLock(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = fileLock.Unlock() }()

	return m.install(ctx, opts.Hooks)
}

// install runs the pipeline against the staged package. The caller holds the
// install lock. Each step short-circuits the rest on failure, so a hook never
// fires after a failed step.
func (m *manager) install(ctx context.Context, hooks Hooks) error {
	hooks.fireInstallStart()

	args := packageManagerArgs(m.paths.StagedPackage)
	result, err := m.runner.Run(ctx, packageManagerProgram, args...)
	if err != nil {
		return NewInstallCommandError(m.paths.StagedPackage, result.ExitCode, "").
			WithUnderlyingErrors(err)
	}
	if result.ExitCode != 0 {
		return NewInstallCommandError(m.paths.StagedPackage, result.ExitCode, result.Stderr)
	}

	hooks.fireMount()

	// the staged package is removed even though the package manager
	// succeeded; a failure here fails the install as a whole so the host is
	// never left with a stale installer lying around unnoticed
	if err := m.fs.RemoveFile(m.paths.StagedPackage); err != nil {
		return NewCleanupError(err, m.paths.StagedPackage)
	}

	hooks.fireRemove()

	return m.verifyInstall(ctx)
}

// verifyInstall polls the initial-install probe with a bounded linear
// backoff; the package manager finishes slightly before the version link
// lands on slow disks.
func (m *manager) verifyInstall(ctx context.Context) error {
	var lastErr error

	for attempt := 1; attempt <= m.verifyAttempts; attempt++ {
		lastErr = m.IsInitiallyInstalled(ctx)
		if lastErr == nil {
			m.logger.Info().Int("attempt", attempt).Msg("Installation verified")
			return nil
		}

		if attempt == m.verifyAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return NewVerificationError(ctx.Err(), attempt)
		case <-time.After(m.verifyBackoff * time.Duration(attempt)):
		}
	}

	return NewVerificationError(lastErr, m.verifyAttempts)
}
