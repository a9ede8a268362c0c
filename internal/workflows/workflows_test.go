// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"

	"github.com/kiteco/kited-manager/internal/host"
	"github.com/kiteco/kited-manager/internal/kite"
	"github.com/kiteco/kited-manager/internal/workflows/notify"
	"github.com/kiteco/kited-manager/pkg/exc"
)

func TestMain(m *testing.M) {
	_ = logx.Initialize(logx.LoggingConfig{Level: "debug", ConsoleLogging: true})
	os.Exit(m.Run())
}

type downloadCall struct {
	url     string
	install bool
}

// fakeManager scripts the lifecycle probe and mutation results so the
// workflow wiring can be exercised without touching the host.
type fakeManager struct {
	mu sync.Mutex

	installedErr          error
	initiallyInstalledErr error
	runningErr            error
	downloadErr           error
	installErr            error
	launchErr             error
	state                 kite.InstallationState

	downloads    []downloadCall
	installCalls int
	launchCalls  int
}

func (f *fakeManager) IsInstalled(ctx context.Context) error {
	return f.installedErr
}

func (f *fakeManager) IsInitiallyInstalled(ctx context.Context) error {
	return f.initiallyInstalledErr
}

func (f *fakeManager) Download(ctx context.Context, url string, opts kite.DownloadOptions) error {
	f.mu.Lock()
	f.downloads = append(f.downloads, downloadCall{url: url, install: opts.Install})
	f.mu.Unlock()

	if f.downloadErr != nil {
		return f.downloadErr
	}

	if opts.Install {
		if opts.Hooks.OnInstallStart != nil {
			opts.Hooks.OnInstallStart()
		}
		if opts.Hooks.OnMount != nil {
			opts.Hooks.OnMount()
		}
		if opts.Hooks.OnRemove != nil {
			opts.Hooks.OnRemove()
		}
	}

	return nil
}

func (f *fakeManager) Install(ctx context.Context, opts kite.InstallOptions) error {
	f.mu.Lock()
	f.installCalls++
	f.mu.Unlock()
	return f.installErr
}

func (f *fakeManager) IsRunning(ctx context.Context) error {
	return f.runningErr
}

func (f *fakeManager) Launch(ctx context.Context) error {
	f.mu.Lock()
	f.launchCalls++
	f.mu.Unlock()
	return f.launchErr
}

func (f *fakeManager) State(ctx context.Context) kite.InstallationState {
	return f.state
}

// notRunningManager is the common fixture for a host where kited is staged
// for launch but not yet in the process table.
func notRunningManager() *fakeManager {
	return &fakeManager{
		installedErr:          nil,
		initiallyInstalledErr: kite.NewNotInstalledError(kite.CurrentVersionLinkPath),
		runningErr:            kite.NewProcessNotRunningError(),
	}
}

// fakeRunner serves canned command results to the host checker.
type fakeRunner struct {
	results map[string]exc.Result
	errs    map[string]error
}

func (f *fakeRunner) Run(ctx context.Context, program string, args ...string) (exc.Result, error) {
	if err, ok := f.errs[program]; ok {
		return exc.Result{ExitCode: -1}, err
	}
	return f.results[program], nil
}

func (f *fakeRunner) Spawn(program string, args ...string) (int, error) {
	return 0, nil
}

func hostRunner(user, groups, release string) *fakeRunner {
	return &fakeRunner{
		results: map[string]exc.Result{
			"whoami":      {ExitCode: 0, Stdout: user + "\n"},
			"getent":      {ExitCode: 0, Stdout: groups},
			"lsb_release": {ExitCode: 0, Stdout: "Distributor ID:\tUbuntu\nRelease:\t" + release + "\n"},
		},
	}
}

func supportedHostChecker() *host.Checker {
	return host.NewChecker(host.WithRunner(hostRunner("alice", "sudo:x:27:alice\n", "22.04")))
}

func failedStep(t *testing.T, report *automa.Report, stepId string) *automa.Report {
	t.Helper()

	for _, stepReport := range report.StepReports {
		if stepReport.Id == stepId {
			require.Equal(t, automa.StatusFailed, stepReport.Status)
			require.Error(t, stepReport.Error)
			return stepReport
		}
	}

	t.Fatalf("no report for step %q", stepId)
	return nil
}

func execute(t *testing.T, b automa.Builder) *automa.Report {
	t.Helper()

	wb, err := b.Build()
	require.NoError(t, err)
	return wb.Execute(context.Background())
}

func TestInstallWorkflow_Succeeds(t *testing.T) {
	mgr := notRunningManager()

	report := execute(t, NewInstallWorkflow(mgr, supportedHostChecker(), "https://linux.kite.com/dls/linux/current"))
	require.NoError(t, report.Error)
	require.Equal(t, automa.StatusSuccess, report.Status)

	require.Equal(t, []downloadCall{{url: "https://linux.kite.com/dls/linux/current", install: true}}, mgr.downloads)
	require.Equal(t, 1, mgr.launchCalls)
}

func TestInstallWorkflow_RejectsNonAdmin(t *testing.T) {
	mgr := notRunningManager()
	checker := host.NewChecker(host.WithRunner(hostRunner("bob", "sudo:x:27:alice\n", "22.04")))

	report := execute(t, NewInstallWorkflow(mgr, checker, "https://example.com/kited.deb"))
	require.Error(t, report.Error)

	stepReport := failedStep(t, report, "validate-privileges")
	require.True(t, errorx.IsOfType(stepReport.Error, kite.UnsupportedHostError))

	require.Empty(t, mgr.downloads)
	require.Zero(t, mgr.launchCalls)
}

func TestInstallWorkflow_RejectsOldOSRelease(t *testing.T) {
	mgr := notRunningManager()
	checker := host.NewChecker(host.WithRunner(hostRunner("alice", "sudo:x:27:alice\n", "16.04")))

	report := execute(t, NewInstallWorkflow(mgr, checker, "https://example.com/kited.deb"))
	require.Error(t, report.Error)

	stepReport := failedStep(t, report, "validate-os-version")
	require.True(t, errorx.IsOfType(stepReport.Error, kite.UnsupportedHostError))

	require.Empty(t, mgr.downloads)
}

func TestInstallWorkflow_ReportsDownloadFailure(t *testing.T) {
	mgr := notRunningManager()
	mgr.downloadErr = kite.NewInstallCommandError("/tmp/kite-installer.deb", 100, "dpkg lock held")

	report := execute(t, NewInstallWorkflow(mgr, supportedHostChecker(), "https://example.com/kited.deb"))
	require.Error(t, report.Error)

	stepReport := failedStep(t, report, "download-package")
	require.True(t, errorx.IsOfType(stepReport.Error, kite.InstallCommandError))

	require.Zero(t, mgr.launchCalls)
}

func TestDownloadWorkflow_StagesWithoutInstalling(t *testing.T) {
	mgr := notRunningManager()

	report := execute(t, NewDownloadWorkflow(mgr, supportedHostChecker(), "https://example.com/kited.deb"))
	require.NoError(t, report.Error)
	require.Equal(t, automa.StatusSuccess, report.Status)

	require.Equal(t, []downloadCall{{url: "https://example.com/kited.deb", install: false}}, mgr.downloads)
	require.Zero(t, mgr.installCalls)
	require.Zero(t, mgr.launchCalls)
}

func TestInstallPackageStep_SkipsWhenAlreadyInstalled(t *testing.T) {
	mgr := notRunningManager()
	mgr.initiallyInstalledErr = nil

	report := execute(t, automa.NewWorkflowBuilder().WithId("install-only").Steps(
		InstallPackageStep(mgr),
	))
	require.NoError(t, report.Error)

	require.Len(t, report.StepReports, 1)
	require.Equal(t, automa.StatusSkipped, report.StepReports[0].Status)
	require.Zero(t, mgr.installCalls)
}

func TestInstallPackageStep_RunsInstallPipeline(t *testing.T) {
	mgr := notRunningManager()

	report := execute(t, automa.NewWorkflowBuilder().WithId("install-only").Steps(
		InstallPackageStep(mgr),
	))
	require.NoError(t, report.Error)
	require.Equal(t, 1, mgr.installCalls)
}

func TestLaunchWorkflow_SkipsWhenAlreadyRunning(t *testing.T) {
	mgr := notRunningManager()
	mgr.runningErr = nil

	report := execute(t, NewLaunchWorkflow(mgr))
	require.NoError(t, report.Error)

	require.Len(t, report.StepReports, 1)
	require.Equal(t, automa.StatusSkipped, report.StepReports[0].Status)
	require.Zero(t, mgr.launchCalls)
}

func TestLaunchWorkflow_ReportsLaunchFailure(t *testing.T) {
	mgr := notRunningManager()
	mgr.launchErr = kite.NewProcessLaunchError(nil, "/opt/kite/kited")

	report := execute(t, NewLaunchWorkflow(mgr))
	require.Error(t, report.Error)

	stepReport := failedStep(t, report, "launch-daemon")
	require.True(t, errorx.IsOfType(stepReport.Error, kite.ProcessLaunchError))
}

func TestInstallWorkflow_NotifiesInstallPhases(t *testing.T) {
	previous := *notify.As()
	t.Cleanup(func() { notify.SetDefault(&previous) })

	var mu sync.Mutex
	var phases []string
	notify.SetDefault(&notify.Handler{
		InstallPhase: func(ctx context.Context, phase string) {
			mu.Lock()
			phases = append(phases, phase)
			mu.Unlock()
		},
	})

	mgr := notRunningManager()
	report := execute(t, NewInstallWorkflow(mgr, supportedHostChecker(), "https://example.com/kited.deb"))
	require.NoError(t, report.Error)

	require.Equal(t, []string{"install-start", "mount", "remove"}, phases)
}
