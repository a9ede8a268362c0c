// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace   = errorx.NewNamespace("exc")
	CommandStartError = ErrorsNamespace.NewType("command_start_error")

	programProperty = errorx.RegisterPrintableProperty("program")
)

const (
	commandStartErrorMsg = "failed to start command '%s'"
)

// NewCommandStartError indicates the program could not be started at all, as
// opposed to running and exiting non-zero.
func NewCommandStartError(cause error, program string) *errorx.Error {
	err := CommandStartError.New(commandStartErrorMsg, program).
		WithProperty(programProperty, program)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}
