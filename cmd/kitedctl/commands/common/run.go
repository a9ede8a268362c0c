// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/kiteco/kited-manager/internal/doctor"
)

// RunWorkflow executes a workflow and handles error
func RunWorkflow(ctx context.Context, b automa.Builder) {
	wb, err := b.Build()
	if err != nil {
		doctor.CheckErr(ctx, err)
	}

	report := wb.Execute(ctx)
	CheckWorkflowReport(ctx, report)
}

func CheckWorkflowReport(ctx context.Context, report *automa.Report) {
	if report.Error == nil {
		return
	}

	// surface the first failing step's error with any attached instructions
	err := report.Error
	for _, stepReport := range report.StepReports {
		if stepReport.Status == automa.StatusFailed && stepReport.Error != nil {
			err = stepReport.Error
			break
		}
	}

	doctor.CheckErr(ctx, err, doctor.GetInstructionsFromReport(report))
}
