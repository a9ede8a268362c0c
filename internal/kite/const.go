// SPDX-License-Identifier: Apache-2.0

// Package kite manages the install and run lifecycle of the kited daemon on a
// Linux host: probing install state, staging and installing the distribution
// package, and detecting or launching the daemon process.
package kite

import (
	"regexp"
)

const (
	// DaemonPath is where the installed daemon binary lives. Its presence is
	// also the ground truth for "kited is installed".
	DaemonPath = "/opt/kite/kited"

	// CurrentVersionLinkPath is the symlink the package installer points at
	// the active versioned release directory.
	CurrentVersionLinkPath = "/opt/kite/current"

	// StagedPackagePath is where the downloaded installer package is staged
	// before handing it to the system package manager.
	StagedPackagePath = "/tmp/kite-installer.deb"

	// ProcessIdentity is the substring that identifies a running daemon in
	// the process table.
	ProcessIdentity = "kited"
)

// versionedReleasePattern matches the base name of a versioned release
// directory, e.g. kite-v2.20190314.0.
var versionedReleasePattern = regexp.MustCompile(`^kite-v\d+\.\d+\.\d+$`)

// packageManagerArgs builds the argv tail handed to apt-get for a staged
// package.
func packageManagerArgs(packagePath string) []string {
	return []string{"install", "-f", packagePath}
}

const packageManagerProgram = "apt-get"

// Paths groups the filesystem locations the lifecycle manager touches.
// Production code uses DefaultPaths; tests point them into a temp directory.
type Paths struct {
	Daemon             string
	CurrentVersionLink string
	StagedPackage      string
}

func DefaultPaths() Paths {
	return Paths{
		Daemon:             DaemonPath,
		CurrentVersionLink: CurrentVersionLinkPath,
		StagedPackage:      StagedPackagePath,
	}
}
