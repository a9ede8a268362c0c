// SPDX-License-Identifier: Apache-2.0

package kite

// InstallationState describes where the daemon currently sits in its install
// lifecycle. It is always derived fresh from the filesystem and process
// table; nothing caches it.
type InstallationState int

const (
	// StateNotInstalled means no daemon binary and no staged package exist.
	StateNotInstalled InstallationState = iota
	// StateDownloaded means a package is staged but not yet installed.
	StateDownloaded
	// StateInstalling means an install is in flight, held by the install lock.
	StateInstalling
	// StateInstalled means the daemon binary exists.
	StateInstalled
	// StateInitiallyInstalled means the binary exists and the current version
	// link resolves to a versioned release, i.e. the package installer
	// completed fully.
	StateInitiallyInstalled
	// StateVerificationTimedOut means post-install verification exhausted its
	// retry budget. It is reported through verification failures, not stored;
	// a later State call recomputes from the filesystem as usual.
	StateVerificationTimedOut
)

func (s InstallationState) String() string {
	switch s {
	case StateNotInstalled:
		return "not-installed"
	case StateDownloaded:
		return "downloaded"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateInitiallyInstalled:
		return "initially-installed"
	case StateVerificationTimedOut:
		return "verification-timed-out"
	default:
		return "unknown"
	}
}
