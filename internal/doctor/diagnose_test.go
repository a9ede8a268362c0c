// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"os"
	"testing"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"

	"github.com/kiteco/kited-manager/internal/kite"
)

func TestMain(m *testing.M) {
	_ = logx.Initialize(logx.LoggingConfig{Level: "debug", ConsoleLogging: true})
	os.Exit(m.Run())
}

func TestDiagnose_ErrorCodes(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		code int
	}{
		{
			name: "not installed maps to not found",
			err:  kite.NewNotInstalledError(kite.DaemonPath),
			code: 10404,
		},
		{
			name: "process not running maps to not found",
			err:  kite.NewProcessNotRunningError(),
			code: 10404,
		},
		{
			name: "concurrent install maps to conflict",
			err:  kite.NewConcurrentInstallError(nil, kite.StagedPackagePath),
			code: 10409,
		},
		{
			name: "illegal argument maps to bad request",
			err:  errorx.IllegalArgument.New("missing url"),
			code: 10400,
		},
		{
			name: "install command failure maps to internal",
			err:  kite.NewInstallCommandError(kite.StagedPackagePath, 100, "dpkg lock held"),
			code: 10500,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := Diagnose(context.Background(), tc.err)
			require.Equal(t, tc.code, resp.Code)
			require.NotEmpty(t, resp.Resolution)
		})
	}
}

func TestDiagnose_UsesResolutionProperty(t *testing.T) {
	err := kite.NewUnsupportedHostError("administrative group membership").
		WithProperty(ErrPropertyResolution, "Re-run with sudo")

	resp := Diagnose(context.Background(), err)
	require.Equal(t, []string{"Re-run with sudo"}, resp.Resolution)
}

func TestDiagnose_CarriesTraceId(t *testing.T) {
	ctx := context.WithValue(context.Background(), "traceId", "trace-123") //nolint:staticcheck

	resp := Diagnose(ctx, kite.NewProcessNotRunningError())
	require.Equal(t, "trace-123", resp.TraceId)
}

func TestGetInstructionsFromReport(t *testing.T) {
	require.Empty(t, GetInstructionsFromReport(nil))

	report := &automa.Report{
		Metadata: map[string]string{},
		StepReports: []*automa.Report{
			{Metadata: map[string]string{}},
			{Metadata: map[string]string{"instructions": "wait for the other install to finish"}},
		},
	}
	require.Equal(t, "wait for the other install to finish", GetInstructionsFromReport(report))
}
