// SPDX-License-Identifier: Apache-2.0

package fsx

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace = errorx.NewNamespace("fsx")
	FileNotFound    = ErrorsNamespace.NewType("file_not_found")
	FileSystemError = ErrorsNamespace.NewType("filesystem_error")
	FileTypeError   = ErrorsNamespace.NewType("file_type_error")

	pathProperty = errorx.RegisterPrintableProperty("path")
)

const (
	fileNotFoundErrorMsg = "file not found: '%s'"
	fileTypeErrorMsg     = "unexpected file type [ path = '%s', expected = '%s' ]"
)

func NewFileNotFoundError(cause error, path string) *errorx.Error {
	err := FileNotFound.New(fileNotFoundErrorMsg, path).
		WithProperty(pathProperty, path)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewFileTypeError(path string, expected string) *errorx.Error {
	return FileTypeError.New(fileTypeErrorMsg, path, expected).
		WithProperty(pathProperty, path)
}
