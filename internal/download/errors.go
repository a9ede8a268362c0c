// SPDX-License-Identifier: Apache-2.0

package download

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace = errorx.NewNamespace("download")
	DownloadError   = ErrorsNamespace.NewType("download_error")

	urlProperty        = errorx.RegisterPrintableProperty("url")
	statusCodeProperty = errorx.RegisterPrintableProperty("status_code")
)

const (
	downloadErrorMsg = "failed to download from URL '%s'"
)

func NewDownloadError(cause error, url string, statusCode int) *errorx.Error {
	err := DownloadError.New(downloadErrorMsg, url).
		WithProperty(urlProperty, url)

	if statusCode > 0 {
		err = err.WithProperty(statusCodeProperty, statusCode)
	}

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}
