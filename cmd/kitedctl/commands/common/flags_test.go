// SPDX-License-Identifier: Apache-2.0

package common

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestFlagDefinition_Value(t *testing.T) {
	req := require.New(t)

	cmd := &cobra.Command{Use: "stage"}

	var noInstall bool
	var url string
	FlagNoInstall.SetVar(cmd, &noInstall, false)
	FlagURL.SetVar(cmd, &url, false)

	// defaults before any arguments are parsed
	got, err := FlagURL.Value(cmd, nil)
	req.NoError(err)
	req.Equal("", got)

	gotNoInstall, err := FlagNoInstall.Value(cmd, nil)
	req.NoError(err)
	req.False(gotNoInstall)

	args := []string{"--url", "https://mirror.example.com/kite/current", "--no-install"}

	got, err = FlagURL.Value(cmd, args)
	req.NoError(err)
	req.Equal("https://mirror.example.com/kite/current", got)

	gotNoInstall, err = FlagNoInstall.Value(cmd, args)
	req.NoError(err)
	req.True(gotNoInstall)

	// the bound variables track the parsed values as well
	req.Equal("https://mirror.example.com/kite/current", url)
	req.True(noInstall)
}

func TestFlagDefinition_ValueFromShortName(t *testing.T) {
	req := require.New(t)

	cmd := &cobra.Command{Use: "stage"}

	var url string
	FlagURL.SetVar(cmd, &url, false)

	got, err := FlagURL.Value(cmd, []string{"-u", "https://mirror.example.com/kite/current"})
	req.NoError(err)
	req.Equal("https://mirror.example.com/kite/current", got)
}
