// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/automa-saga/logx"
	"github.com/spf13/cobra"

	"github.com/kiteco/kited-manager/cmd/kitedctl/commands/common"
	"github.com/kiteco/kited-manager/internal/workflows"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start kited",
	Long:  "Launch the kited daemon if it is installed and not already running",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newKiteManager(cmd.Context())
		common.RunWorkflow(cmd.Context(), workflows.NewLaunchWorkflow(mgr))

		logx.As().Info().Msg("kited is running")
		return nil
	},
}
