// SPDX-License-Identifier: Apache-2.0

package kite

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace      = errorx.NewNamespace("kite")
	NotInstalledError    = ErrorsNamespace.NewType("not_installed", errorx.NotFound())
	ProbeError           = ErrorsNamespace.NewType("probe_failed")
	InstallCommandError  = ErrorsNamespace.NewType("install_command_error")
	CleanupError         = ErrorsNamespace.NewType("cleanup_error")
	VerificationError    = ErrorsNamespace.NewType("verification_failed")
	ProcessNotRunning    = ErrorsNamespace.NewType("process_not_running", errorx.NotFound())
	ProcessLaunchError   = ErrorsNamespace.NewType("process_launch_error")
	ConcurrentInstall    = ErrorsNamespace.NewType("concurrent_install")
	UnsupportedHostError = ErrorsNamespace.NewType("unsupported_host")

	pathProperty     = errorx.RegisterPrintableProperty("path")
	exitCodeProperty = errorx.RegisterPrintableProperty("exit_code")
	patternProperty  = errorx.RegisterPrintableProperty("pattern")
	attemptsProperty = errorx.RegisterPrintableProperty("attempts")
	stateProperty    = errorx.RegisterPrintableProperty("state")
)

const (
	notInstalledErrorMsg      = "kited is not installed [ path = '%s' ]"
	probeErrorMsg             = "failed to probe kited installation [ path = '%s' ]"
	linkMissingErrorMsg       = "current version link not found [ path = '%s' ]"
	linkUnreadableErrorMsg    = "current version link is not a readable symlink [ path = '%s' ]"
	linkPatternErrorMsg       = "current version link target '%s' does not name a versioned release"
	installCommandErrorMsg    = "package manager failed to install '%s' [ exit code = %d ]"
	cleanupErrorMsg           = "failed to remove staged package '%s' after installation"
	verificationErrorMsg      = "installation could not be verified after %d attempts"
	processNotRunningErrorMsg = "kited process is not running"
	processLaunchErrorMsg     = "failed to launch kited from '%s'"
	concurrentInstallErrorMsg = "another install of '%s' is already in progress"
	unsupportedHostErrorMsg   = "host does not satisfy requirement: %s"
)

func NewUnsupportedHostError(requirement string) *errorx.Error {
	return UnsupportedHostError.New(unsupportedHostErrorMsg, requirement)
}

func NewProbeError(cause error, path string) *errorx.Error {
	err := ProbeError.New(probeErrorMsg, path).
		WithProperty(pathProperty, path)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewNotInstalledError(path string) *errorx.Error {
	return NotInstalledError.New(notInstalledErrorMsg, path).
		WithProperty(pathProperty, path)
}

func NewLinkMissingError(path string) *errorx.Error {
	return NotInstalledError.New(linkMissingErrorMsg, path).
		WithProperty(pathProperty, path)
}

func NewLinkUnreadableError(cause error, path string) *errorx.Error {
	err := VerificationError.New(linkUnreadableErrorMsg, path).
		WithProperty(pathProperty, path)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewLinkPatternError(target string, pattern string) *errorx.Error {
	return VerificationError.New(linkPatternErrorMsg, target).
		WithProperty(pathProperty, target).
		WithProperty(patternProperty, pattern)
}

func NewInstallCommandError(packagePath string, exitCode int, stderr string) *errorx.Error {
	err := InstallCommandError.New(installCommandErrorMsg, packagePath, exitCode).
		WithProperty(pathProperty, packagePath).
		WithProperty(exitCodeProperty, exitCode)

	if stderr != "" {
		err = err.WithProperty(errorx.PropertyPayload(), stderr)
	}

	return err
}

func NewCleanupError(cause error, packagePath string) *errorx.Error {
	err := CleanupError.New(cleanupErrorMsg, packagePath).
		WithProperty(pathProperty, packagePath)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewVerificationError(cause error, attempts int) *errorx.Error {
	err := VerificationError.New(verificationErrorMsg, attempts).
		WithProperty(attemptsProperty, attempts).
		WithProperty(stateProperty, StateVerificationTimedOut.String())

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewProcessNotRunningError() *errorx.Error {
	return ProcessNotRunning.New(processNotRunningErrorMsg)
}

func NewProcessLaunchError(cause error, daemonPath string) *errorx.Error {
	err := ProcessLaunchError.New(processLaunchErrorMsg, daemonPath).
		WithProperty(pathProperty, daemonPath)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewConcurrentInstallError(cause error, packagePath string) *errorx.Error {
	err := ConcurrentInstall.New(concurrentInstallErrorMsg, packagePath).
		WithProperty(pathProperty, packagePath)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}
