// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/automa-saga/logx"
	"github.com/spf13/cobra"

	"github.com/kiteco/kited-manager/cmd/kitedctl/commands/common"
	"github.com/kiteco/kited-manager/internal/workflows"
)

var (
	flagNoInstall   bool
	flagDownloadURL string

	downloadCmd = &cobra.Command{
		Use:   "download",
		Short: "Download the kited package",
		Long:  "Download the kited package and install it unless --no-install is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			noInstall, err := common.FlagNoInstall.Value(cmd, args)
			if err != nil {
				return err
			}

			override, err := common.FlagURL.Value(cmd, args)
			if err != nil {
				return err
			}

			url := downloadURL(override)
			logx.As().Debug().
				Str("url", url).
				Bool("noInstall", noInstall).
				Msg("Downloading kited package")

			mgr := newKiteManager(cmd.Context())
			checker := newHostChecker()
			if noInstall {
				common.RunWorkflow(cmd.Context(), workflows.NewDownloadWorkflow(mgr, checker, url))
			} else {
				common.RunWorkflow(cmd.Context(), workflows.NewInstallWorkflow(mgr, checker, url))
			}

			logx.As().Info().Msg("Successfully downloaded kited package")
			return nil
		},
	}
)

func init() {
	common.FlagNoInstall.SetVar(downloadCmd, &flagNoInstall, false)
	common.FlagURL.SetVar(downloadCmd, &flagDownloadURL, false)
}
