// SPDX-License-Identifier: Apache-2.0

package fsx

import (
	"os"
)

// Manager provides an operating system independent interface for the handful
// of filesystem operations the daemon lifecycle needs.
type Manager interface {
	// PathExists determines if the source path exists. This method does not follow symlinks.
	PathExists(path string) (os.FileInfo, bool, error)
	// IsSymbolicLinkByFileInfo returns true if the file info is a symbolic link; otherwise, false is returned.
	IsSymbolicLinkByFileInfo(fi os.FileInfo) bool
	// ReadLinkTarget resolves the target of the symbolic link at path.
	ReadLinkTarget(path string) (string, error)
	// CreateDirectory creates a directory at the path specified by the path argument.
	// If the path argument refers to an existing directory, then no action is taken and no error is returned.
	// If the path argument refers to an existing file, then an error is returned.
	// If the path argument refers to a non-existent parent path, then an error is returned unless
	// the recursive argument is true.
	CreateDirectory(path string, recursive bool) error
	// RemoveFile deletes the file at the given path. Removing a directory is an error.
	RemoveFile(path string) error
}
