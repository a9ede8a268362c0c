// SPDX-License-Identifier: Apache-2.0

// Package workflows composes the kited lifecycle operations into saga
// workflows executed by the CLI commands.
package workflows

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/kiteco/kited-manager/internal/host"
	"github.com/kiteco/kited-manager/internal/kite"
	"github.com/kiteco/kited-manager/internal/workflows/notify"
)

// pipelineHooks bridges the install pipeline hook points into the
// notification handler.
func pipelineHooks(ctx context.Context) kite.Hooks {
	return kite.Hooks{
		OnInstallStart: func() { notify.As().InstallPhase(ctx, "install-start") },
		OnMount:        func() { notify.As().InstallPhase(ctx, "mount") },
		OnRemove:       func() { notify.As().InstallPhase(ctx, "remove") },
	}
}

// DownloadPackageStep stages the kited package; when install is true the
// step continues into the install pipeline once staged.
func DownloadPackageStep(mgr kite.Manager, url string, install bool) automa.Builder {
	return automa.NewStepBuilder().WithId("download-package").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			err := mgr.Download(ctx, url, kite.DownloadOptions{
				Install: install,
				Hooks:   pipelineHooks(ctx),
			})
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				"url": url,
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Downloading kited package from %s", url)
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Package download failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Package download step completed successfully")
		})
}

// InstallPackageStep runs the install pipeline against an already staged
// package. It is skipped when the host is already fully installed.
func InstallPackageStep(mgr kite.Manager) automa.Builder {
	return automa.NewStepBuilder().WithId("install-package").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			if mgr.IsInitiallyInstalled(ctx) == nil {
				return automa.SkippedReport(stp, automa.WithDetail("kited is already installed"))
			}

			err := mgr.Install(ctx, kite.InstallOptions{Hooks: pipelineHooks(ctx)})
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Installing kited package")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Package installation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Package installation step completed successfully")
		})
}

// LaunchDaemonStep starts kited unless it is already running.
func LaunchDaemonStep(mgr kite.Manager) automa.Builder {
	return automa.NewStepBuilder().WithId("launch-daemon").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			if mgr.IsRunning(ctx) == nil {
				return automa.SkippedReport(stp, automa.WithDetail("kited is already running"))
			}

			if err := mgr.Launch(ctx); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			logx.As().Info().Msg("kited launched")
			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Launching kited")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Daemon launch failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Daemon launch step completed successfully")
		})
}

// NewInstallWorkflow checks the host, downloads the package and runs the
// install pipeline, then launches the daemon.
func NewInstallWorkflow(mgr kite.Manager, checker *host.Checker, url string) *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().
		WithId("kited-install").Steps(
		CheckPrivilegesStep(checker),
		CheckOSVersionStep(checker),
		DownloadPackageStep(mgr, url, true),
		LaunchDaemonStep(mgr),
	).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting kited installation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "kited installation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "kited installation completed successfully")
		})
}

// NewDownloadWorkflow checks the host and stages the package without
// installing it.
func NewDownloadWorkflow(mgr kite.Manager, checker *host.Checker, url string) *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().
		WithId("kited-download").Steps(
		CheckPrivilegesStep(checker),
		CheckOSVersionStep(checker),
		DownloadPackageStep(mgr, url, false),
	).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting kited package download")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "kited package download failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "kited package download completed successfully")
		})
}

// NewLaunchWorkflow launches the daemon on an installed host.
func NewLaunchWorkflow(mgr kite.Manager) *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().
		WithId("kited-launch").Steps(
		LaunchDaemonStep(mgr),
	).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting kited launch")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "kited launch failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "kited launch completed successfully")
		})
}
