// SPDX-License-Identifier: Apache-2.0

package version

import (
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func TestInfo_Format(t *testing.T) {
	req := require.New(t)

	info := Get()
	req.NotEmpty(info.Number)
	req.NotEmpty(info.GoVersion)

	out, err := info.Format(FormatYAML)
	req.NoError(err)
	req.Contains(out, "version:")

	out, err = info.Format(FormatJSON)
	req.NoError(err)
	req.Contains(out, `"version"`)

	_, err = info.Format("xml")
	req.Error(err)
	req.True(errorx.IsOfType(err, errorx.IllegalFormat))
}

func TestBuildMode(t *testing.T) {
	req := require.New(t)

	// local builds carry no ldflags override
	req.Equal("dev", BuildMode())
	req.False(IsReleaseBuild())
}
