// SPDX-License-Identifier: Apache-2.0

// Package host answers questions about the machine the CLI is running on:
// whether the invoking user carries administrative rights and whether the OS
// release is recent enough for the daemon.
package host

import (
	"context"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/kiteco/kited-manager/pkg/exc"
)

var nolog = zerolog.Nop()

// MinimumOSVersion is the oldest Ubuntu release the daemon supports.
const MinimumOSVersion = "18.04"

// adminGroups are the unix groups whose membership grants install rights.
var adminGroups = []string{"root", "adm", "admin", "sudo"}

var releaseLinePattern = regexp.MustCompile(`(?m)^Release:\s*(\d+(?:\.\d+)*)`)

type Checker struct {
	runner exc.Runner
	logger *zerolog.Logger
}

// Option allows injecting parameters for the Checker.
type Option = func(c *Checker)

// WithRunner allows injecting a command runner for the Checker.
func WithRunner(runner exc.Runner) Option {
	return func(c *Checker) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// WithLogger allows injecting a logger for the Checker.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker returns a Checker backed by the given options. Defaults are the
// os/exec runner and a no-op logger.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		logger: &nolog,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.runner == nil {
		c.runner = exc.NewRunner(exc.WithLogger(c.logger))
	}

	return c
}

// IsAdmin reports whether the current user belongs to one of the
// administrative groups. Any command failure or unparseable output is
// reported as false; this probe never errors.
func (c *Checker) IsAdmin(ctx context.Context) bool {
	user, err := c.runner.Run(ctx, "whoami")
	if err != nil || user.ExitCode != 0 {
		c.logger.Debug().Err(err).Msg("Failed to resolve current user")
		return false
	}

	userName := strings.TrimSpace(user.Stdout)
	if userName == "" {
		return false
	}

	groups, err := c.runner.Run(ctx, "getent", append([]string{"group"}, adminGroups...)...)
	if err != nil || groups.ExitCode != 0 {
		c.logger.Debug().Err(err).Msg("Failed to enumerate administrative groups")
		return false
	}

	for _, line := range strings.Split(groups.Stdout, "\n") {
		// getent group format: name:password:gid:member1,member2
		fields := strings.Split(strings.TrimSpace(line), ":")
		if len(fields) < 4 {
			continue
		}

		for _, member := range strings.Split(fields[3], ",") {
			if strings.TrimSpace(member) == userName {
				c.logger.Debug().
					Str("user", userName).
					Str("group", fields[0]).
					Msg("User has administrative rights")
				return true
			}
		}
	}

	return false
}

// IsOSVersionSupported reports whether the host OS release is at least
// MinimumOSVersion. It parses the Release line of `lsb_release -a`; malformed
// or missing output is reported as false, never an error.
func (c *Checker) IsOSVersionSupported(ctx context.Context) bool {
	result, err := c.runner.Run(ctx, "lsb_release", "-a")
	if err != nil || result.ExitCode != 0 {
		c.logger.Debug().Err(err).Msg("Failed to query OS release")
		return false
	}

	release := releaseLinePattern.FindStringSubmatch(result.Stdout)
	if release == nil {
		c.logger.Debug().Msg("No Release line in lsb_release output")
		return false
	}

	version, err := semver.NewVersion(release[1])
	if err != nil {
		c.logger.Debug().Err(err).Str("release", release[1]).Msg("Unparseable OS release")
		return false
	}

	minimum := semver.MustParse(MinimumOSVersion)

	supported := !version.LessThan(minimum)
	c.logger.Debug().
		Str("release", release[1]).
		Bool("supported", supported).
		Msg("Checked OS release")

	return supported
}
