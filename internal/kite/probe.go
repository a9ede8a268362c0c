// SPDX-License-Identifier: Apache-2.0

package kite

import (
	"context"
	"path/filepath"
)

func (m *manager) IsInstalled(_ context.Context) error {
	_, exists, err := m.fs.PathExists(m.paths.Daemon)
	if err != nil {
		return NewProbeError(err, m.paths.Daemon)
	}

	if !exists {
		return NewNotInstalledError(m.paths.Daemon)
	}

	return nil
}

func (m *manager) IsInitiallyInstalled(_ context.Context) error {
	fi, exists, err := m.fs.PathExists(m.paths.CurrentVersionLink)
	if err != nil {
		return NewLinkUnreadableError(err, m.paths.CurrentVersionLink)
	}

	if !exists {
		return NewLinkMissingError(m.paths.CurrentVersionLink)
	}

	if !m.fs.IsSymbolicLinkByFileInfo(fi) {
		return NewLinkUnreadableError(nil, m.paths.CurrentVersionLink)
	}

	target, err := m.fs.ReadLinkTarget(m.paths.CurrentVersionLink)
	if err != nil {
		return NewLinkUnreadableError(err, m.paths.CurrentVersionLink)
	}

	if !versionedReleasePattern.MatchString(filepath.Base(target)) {
		return NewLinkPatternError(target, versionedReleasePattern.String())
	}

	return nil
}

// State derives the installation state fresh on every call. It inspects the
// install lock, the daemon binary, the current version link and the staged
// package; nothing is cached.
func (m *manager) State(ctx context.Context) InstallationState {
	if m.installLockHeld() {
		return StateInstalling
	}

	if m.IsInstalled(ctx) == nil {
		if m.IsInitiallyInstalled(ctx) == nil {
			return StateInitiallyInstalled
		}

		return StateInstalled
	}

	if _, staged, _ := m.fs.PathExists(m.paths.StagedPackage); staged {
		return StateDownloaded
	}

	return StateNotInstalled
}
