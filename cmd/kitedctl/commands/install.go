// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/automa-saga/logx"
	"github.com/spf13/cobra"

	"github.com/kiteco/kited-manager/cmd/kitedctl/commands/common"
	"github.com/kiteco/kited-manager/internal/config"
	"github.com/kiteco/kited-manager/internal/workflows"
)

var (
	flagInstallURL string

	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Install kited",
		Long:  "Check the host, download the kited package, install it and launch the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := common.FlagURL.Value(cmd, args)
			if err != nil {
				return err
			}

			url := downloadURL(override)
			logx.As().Debug().
				Str("url", url).
				Msg("Installing kited")

			mgr := newKiteManager(cmd.Context())
			common.RunWorkflow(cmd.Context(), workflows.NewInstallWorkflow(mgr, newHostChecker(), url))

			logx.As().Info().Msg("Successfully installed kited")
			return nil
		},
	}
)

func init() {
	common.FlagURL.SetVar(installCmd, &flagInstallURL, false)
}

// downloadURL resolves the package URL, preferring the flag override over the
// configured default.
func downloadURL(override string) string {
	if override != "" {
		return override
	}

	return config.Get().Download.URL
}
