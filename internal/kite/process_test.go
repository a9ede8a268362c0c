// SPDX-License-Identifier: Apache-2.0

package kite

import (
	"context"
	"fmt"
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"

	"github.com/kiteco/kited-manager/pkg/exc"
)

const psHeader = "  PID COMMAND\n"

func psOutput(commands ...string) string {
	out := psHeader
	for i, cmd := range commands {
		out += fmt.Sprintf("%5d %s\n", 100+i, cmd)
	}
	return out
}

func TestManager_IsRunning(t *testing.T) {
	tests := []struct {
		name    string
		stdout  string
		running bool
	}{
		{
			name:    "daemon present",
			stdout:  psOutput("/sbin/init", "/opt/kite/kited"),
			running: true,
		},
		{
			name:    "daemon absent",
			stdout:  psOutput("/sbin/init", "bash"),
			running: false,
		},
		{
			name:    "only header",
			stdout:  psHeader,
			running: false,
		},
		{
			name:    "identity in header only",
			stdout:  "  PID COMMAND kited\n  100 bash\n",
			running: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			runner := &fakeRunner{results: map[string]exc.Result{"ps": {Stdout: tt.stdout}}}
			m := newTestManager(t, testPaths(t), runner)

			err := m.IsRunning(context.Background())
			if tt.running {
				req.NoError(err)
			} else {
				req.Error(err)
				req.True(errorx.IsOfType(err, ProcessNotRunning))
			}
		})
	}
}

func TestManager_IsRunning_PsFails(t *testing.T) {
	req := require.New(t)
	runner := &fakeRunner{results: map[string]exc.Result{"ps": {ExitCode: 1}}}
	m := newTestManager(t, testPaths(t), runner)

	err := m.IsRunning(context.Background())
	req.Error(err)
	req.True(errorx.IsOfType(err, ProcessNotRunning))
}

func TestManager_Launch(t *testing.T) {
	req := require.New(t)
	paths := testPaths(t)
	runner := &fakeRunner{
		results:  map[string]exc.Result{"ps": {Stdout: psOutput("bash")}},
		spawnPid: 4242,
	}

	installDaemon(t, paths, "kite-v2.20190314.0")
	m := newTestManager(t, paths, runner)

	req.NoError(m.Launch(context.Background()))
	req.Equal([][]string{{paths.Daemon}}, runner.spawnCalls)
}

func TestManager_Launch_NotInstalled(t *testing.T) {
	req := require.New(t)
	runner := &fakeRunner{}
	m := newTestManager(t, testPaths(t), runner)

	err := m.Launch(context.Background())
	req.Error(err)
	req.True(errorx.IsOfType(err, NotInstalledError))
	req.Empty(runner.spawnCalls)
}

func TestManager_Launch_AlreadyRunning(t *testing.T) {
	req := require.New(t)
	paths := testPaths(t)
	runner := &fakeRunner{results: map[string]exc.Result{"ps": {Stdout: psOutput("/opt/kite/kited")}}}

	installDaemon(t, paths, "kite-v2.20190314.0")
	m := newTestManager(t, paths, runner)

	req.NoError(m.Launch(context.Background()))
	req.Empty(runner.spawnCalls)
}

func TestManager_Launch_SpawnFails(t *testing.T) {
	req := require.New(t)
	paths := testPaths(t)
	runner := &fakeRunner{
		results:  map[string]exc.Result{"ps": {Stdout: psOutput("bash")}},
		spawnErr: fmt.Errorf("permission denied"),
	}

	installDaemon(t, paths, "kite-v2.20190314.0")
	m := newTestManager(t, paths, runner)

	err := m.Launch(context.Background())
	req.Error(err)
	req.True(errorx.IsOfType(err, ProcessLaunchError))
}
