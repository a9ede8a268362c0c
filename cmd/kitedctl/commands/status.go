// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"strings"

	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kiteco/kited-manager/internal/doctor"
)

// Status is the point-in-time lifecycle report rendered by the status
// command.
type Status struct {
	State              string `yaml:"state" json:"state"`
	Installed          bool   `yaml:"installed" json:"installed"`
	InitiallyInstalled bool   `yaml:"initiallyInstalled" json:"initiallyInstalled"`
	Running            bool   `yaml:"running" json:"running"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show kited status",
	Long:  "Derive and print the current kited installation and process state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr := newKiteManager(ctx)

		status := Status{
			State:              mgr.State(ctx).String(),
			Installed:          mgr.IsInstalled(ctx) == nil,
			InitiallyInstalled: mgr.IsInitiallyInstalled(ctx) == nil,
			Running:            mgr.IsRunning(ctx) == nil,
		}

		var output []byte
		var err error
		switch strings.ToLower(flagOutputFormat) {
		case "json":
			output, err = json.MarshalIndent(status, "", "  ")
		case "yaml":
			output, err = yaml.Marshal(status)
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
