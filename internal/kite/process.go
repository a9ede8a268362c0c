// SPDX-License-Identifier: Apache-2.0

package kite

import (
	"context"
	"strings"
)

func (m *manager) IsRunning(ctx context.Context) error {
	result, err := m.runner.Run(ctx, "ps", "-axo", "pid,command")
	if err != nil {
		return NewProcessNotRunningError().WithUnderlyingErrors(err)
	}
	if result.ExitCode != 0 {
		return NewProcessNotRunningError()
	}

	lines := strings.Split(result.Stdout, "\n")
	for i, line := range lines {
		if i == 0 {
			// header row
			continue
		}

		if strings.Contains(line, ProcessIdentity) {
			return nil
		}
	}

	return NewProcessNotRunningError()
}

func (m *manager) Launch(ctx context.Context) error {
	if err := m.IsInstalled(ctx); err != nil {
		return err
	}

	if err := m.IsRunning(ctx); err == nil {
		m.logger.Debug().Msg("kited already running, not launching")
		return nil
	}

	pid, err := m.runner.Spawn(m.paths.Daemon)
	if err != nil {
		return NewProcessLaunchError(err, m.paths.Daemon)
	}

	m.logger.Info().Int("pid", pid).Str("daemon", m.paths.Daemon).Msg("Launched kited")

	return nil
}
