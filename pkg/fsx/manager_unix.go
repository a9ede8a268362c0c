// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package fsx

import (
	"os"
	"path/filepath"
)

const (
	defaultDirectoryMode = 0755
)

type Option func(*unixManager) error

type unixManager struct{}

func NewManager(opts ...Option) (Manager, error) {
	manager := &unixManager{}

	for _, opt := range opts {
		if err := opt(manager); err != nil {
			return nil, err
		}
	}

	return manager, nil
}

func (m *unixManager) PathExists(path string) (os.FileInfo, bool, error) {
	pi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return pi, true, nil
}

func (m *unixManager) IsSymbolicLinkByFileInfo(fi os.FileInfo) bool {
	return fi.Mode()&os.ModeSymlink != 0
}

func (m *unixManager) ReadLinkTarget(path string) (string, error) {
	fi, exists, err := m.PathExists(path)
	if err != nil {
		return "", FileSystemError.New("invalid path %q", path).WithUnderlyingErrors(err)
	}

	if !exists {
		return "", NewFileNotFoundError(nil, path)
	}

	if !m.IsSymbolicLinkByFileInfo(fi) {
		return "", NewFileTypeError(path, "symbolic link")
	}

	target, err := os.Readlink(path)
	if err != nil {
		return "", FileSystemError.New("failed to read link %q", path).WithUnderlyingErrors(err)
	}

	return target, nil
}

func (m *unixManager) CreateDirectory(path string, recursive bool) error {
	fi, exists, err := m.PathExists(path)
	if err != nil {
		return FileSystemError.New("invalid path %q", path).WithUnderlyingErrors(err)
	}

	if exists {
		if fi.IsDir() {
			return nil
		}

		return NewFileTypeError(path, "directory")
	}

	if recursive {
		if err := os.MkdirAll(path, defaultDirectoryMode); err != nil {
			return FileSystemError.New("failed to create directory %q", path).WithUnderlyingErrors(err)
		}

		return nil
	}

	parentDir := filepath.Dir(path)
	if _, exists, err = m.PathExists(parentDir); err != nil || !exists {
		return FileSystemError.
			New("parent directory is not a valid path %q", parentDir).
			WithUnderlyingErrors(err)
	}

	if err := os.Mkdir(path, defaultDirectoryMode); err != nil {
		return FileSystemError.New("failed to create directory %q", path).WithUnderlyingErrors(err)
	}

	return nil
}

func (m *unixManager) RemoveFile(path string) error {
	fi, exists, err := m.PathExists(path)
	if err != nil {
		return FileSystemError.New("invalid path %q", path).WithUnderlyingErrors(err)
	}

	if !exists {
		return NewFileNotFoundError(nil, path)
	}

	if fi.IsDir() {
		return NewFileTypeError(path, "file")
	}

	if err := os.Remove(path); err != nil {
		return FileSystemError.New("failed to remove file %q", path).WithUnderlyingErrors(err)
	}

	return nil
}
