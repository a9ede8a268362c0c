// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/kiteco/kited-manager/internal/doctor"
	"github.com/kiteco/kited-manager/internal/host"
	"github.com/kiteco/kited-manager/internal/kite"
	"github.com/kiteco/kited-manager/internal/workflows/notify"
)

// CheckPrivilegesStep validates that the current user belongs to an
// administrative group
func CheckPrivilegesStep(checker *host.Checker) automa.Builder {
	return automa.NewStepBuilder().WithId("validate-privileges").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			if !checker.IsAdmin(ctx) {
				return automa.FailureReport(stp,
					automa.WithError(
						kite.NewUnsupportedHostError("administrative group membership").
							WithProperty(doctor.ErrPropertyResolution,
								fmt.Sprintf("Run the command as a user in the root, adm, admin or sudo group: `sudo %s`",
									strings.Join(os.Args, " ")))))
			}

			logx.As().Info().Msg("Administrative privilege validated")
			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting privilege validation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Privilege validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Privilege validation step completed successfully")
		})
}

// CheckOSVersionStep validates that the host OS release is recent enough for
// the daemon
func CheckOSVersionStep(checker *host.Checker) automa.Builder {
	return automa.NewStepBuilder().WithId("validate-os-version").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			if !checker.IsOSVersionSupported(ctx) {
				return automa.FailureReport(stp,
					automa.WithError(
						kite.NewUnsupportedHostError(
							fmt.Sprintf("OS release %s or newer", host.MinimumOSVersion))))
			}

			logx.As().Info().Msg("OS release validated")
			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting OS release validation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "OS release validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "OS release validation step completed successfully")
		})
}
