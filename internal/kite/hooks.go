// SPDX-License-Identifier: Apache-2.0

package kite

// Hooks are optional observation points the install pipeline fires in a fixed
// order: OnInstallStart before the package manager runs, OnMount once the
// package manager succeeded, OnRemove once the staged package has been
// cleaned up. A nil hook is a no-op; hooks run synchronously and are never
// invoked after a failed step.
type Hooks struct {
	OnInstallStart func()
	OnMount        func()
	OnRemove       func()
}

func (h Hooks) fireInstallStart() {
	if h.OnInstallStart != nil {
		h.OnInstallStart()
	}
}

func (h Hooks) fireMount() {
	if h.OnMount != nil {
		h.OnMount()
	}
}

func (h Hooks) fireRemove() {
	if h.OnRemove != nil {
		h.OnRemove()
	}
}

// DownloadOptions controls Download behavior.
type DownloadOptions struct {
	// Install continues into the install pipeline once the package is staged.
	Install bool
	Hooks   Hooks
}

// InstallOptions controls Install behavior.
type InstallOptions struct {
	Hooks Hooks
}
