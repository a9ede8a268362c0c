// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"strings"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kiteco/kited-manager/internal/doctor"
	"github.com/kiteco/kited-manager/internal/host"
	"github.com/kiteco/kited-manager/internal/version"
)

// HostReport is the doctor command's full diagnostic snapshot.
type HostReport struct {
	Version       version.Info          `yaml:"version" json:"version"`
	Host          host.Profile          `yaml:"host" json:"host"`
	Admin         bool                  `yaml:"admin" json:"admin"`
	OSSupported   bool                  `yaml:"osSupported" json:"osSupported"`
	Daemon        Status                `yaml:"daemon" json:"daemon"`
	SystemPackage *doctor.PackageReport `yaml:"systemPackage,omitempty" json:"systemPackage,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the host",
	Long:  "Collect a host profile, check privileges and OS release, and report the daemon lifecycle state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr := newKiteManager(ctx)
		checker := newHostChecker()

		report := HostReport{
			Version:     version.Get(),
			Host:        host.CollectProfile(),
			Admin:       checker.IsAdmin(ctx),
			OSSupported: checker.IsOSVersionSupported(ctx),
			Daemon: Status{
				State:              mgr.State(ctx).String(),
				Installed:          mgr.IsInstalled(ctx) == nil,
				InitiallyInstalled: mgr.IsInitiallyInstalled(ctx) == nil,
				Running:            mgr.IsRunning(ctx) == nil,
			},
		}

		// package-manager visibility is best effort; hosts without a
		// supported package manager still get the rest of the report
		if pkg, err := doctor.InspectPackage(); err == nil {
			report.SystemPackage = pkg
		} else {
			logx.As().Debug().Err(err).Msg("System package manager not available")
		}

		var output []byte
		var err error
		switch strings.ToLower(flagOutputFormat) {
		case "json":
			output, err = json.MarshalIndent(report, "", "  ")
		case "yaml":
			output, err = yaml.Marshal(report)
		default:
			err = errorx.IllegalFormat.New("unsupported format: %s", flagOutputFormat)
		}
		if err != nil {
			doctor.CheckErr(ctx, err)
		}

		cmd.Println(string(output))
		return nil
	},
}
