// SPDX-License-Identifier: Apache-2.0

package kite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/automa-saga/logx"
	"github.com/stretchr/testify/require"

	"github.com/kiteco/kited-manager/pkg/exc"
)

func TestMain(m *testing.M) {
	// initialize logging once for all tests
	_ = logx.Initialize(logx.LoggingConfig{
		Level:          "debug",
		ConsoleLogging: true,
	})
	os.Exit(m.Run())
}

// fakeRunner replays scripted results keyed by program name and records every
// invocation.
type fakeRunner struct {
	mu         sync.Mutex
	results    map[string]exc.Result
	errs       map[string]error
	spawnPid   int
	spawnErr   error
	runCalls   [][]string
	spawnCalls [][]string
}

func (f *fakeRunner) Run(_ context.Context, program string, args ...string) (exc.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.runCalls = append(f.runCalls, append([]string{program}, args...))

	if err, ok := f.errs[program]; ok {
		return exc.Result{ExitCode: -1}, err
	}
	if r, ok := f.results[program]; ok {
		return r, nil
	}
	return exc.Result{}, nil
}

func (f *fakeRunner) Spawn(program string, args ...string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.spawnCalls = append(f.spawnCalls, append([]string{program}, args...))

	if f.spawnErr != nil {
		return 0, f.spawnErr
	}
	return f.spawnPid, nil
}

func (f *fakeRunner) ranPrograms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var programs []string
	for _, call := range f.runCalls {
		programs = append(programs, call[0])
	}
	return programs
}

// fakeDownloader writes a fixed payload to the destination.
type fakeDownloader struct {
	payload string
	err     error
	fetched []string
}

func (f *fakeDownloader) Fetch(_ context.Context, url, destination string) error {
	f.fetched = append(f.fetched, url)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(destination, []byte(f.payload), 0644)
}

// testPaths roots all managed paths in a temp directory.
func testPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()

	return Paths{
		Daemon:             filepath.Join(dir, "kited"),
		CurrentVersionLink: filepath.Join(dir, "current"),
		StagedPackage:      filepath.Join(dir, "kite-installer.deb"),
	}
}

// installDaemon drops a daemon binary and a valid version link at the given
// paths, simulating a completed package install.
func installDaemon(t *testing.T, paths Paths, release string) {
	t.Helper()

	req := require.New(t)
	req.NoError(os.WriteFile(paths.Daemon, []byte("#!/bin/sh\n"), 0755))

	target := filepath.Join(filepath.Dir(paths.CurrentVersionLink), release)
	req.NoError(os.MkdirAll(target, 0755))
	req.NoError(os.Symlink(target, paths.CurrentVersionLink))
}

func stagePackage(t *testing.T, paths Paths) {
	t.Helper()
	require.NoError(t, os.WriteFile(paths.StagedPackage, []byte("deb-bytes"), 0644))
}

func newTestManager(t *testing.T, paths Paths, runner exc.Runner, opts ...Option) Manager {
	t.Helper()

	all := append([]Option{
		WithPaths(paths),
		WithRunner(runner),
		WithVerifyBudget(2, 0),
	}, opts...)

	m, err := NewManager(all...)
	require.NoError(t, err)

	return m
}
