/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package adapterpaths computes where debug adapter installations live on disk.
package adapterpaths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	AdapterRootEnv = "AHKDAP_ADAPTER_ROOT"

	versionSeparator = "_"
	lockFileSuffix   = ".lock"
	stagingPrefix    = "."
	stagingSuffix    = "-staging-"
)

// Returns the directory that holds all installed versions of the named adapter.
// The AHKDAP_ADAPTER_ROOT environment variable takes precedence;
// otherwise the directory is named after the adapter and placed under the current working directory.
func GetAdapterRoot(adapterName string) (string, error) {
	if root, found := os.LookupEnv(AdapterRootEnv); found && strings.TrimSpace(root) != "" {
		return filepath.Abs(filepath.Clean(strings.TrimSpace(root)))
	}

	cwd, cwdErr := os.Getwd()
	if cwdErr != nil {
		return "", fmt.Errorf("could not determine the adapter installation directory: %w", cwdErr)
	}

	return filepath.Join(filepath.Clean(cwd), adapterName), nil
}

// Layout describes the on-disk structure of the installations of a single adapter.
//
// <Root>/<AdapterName>_<version>/<ExecutableRelPath>
// <Root>/<AdapterName>_<version>/<ScriptRelPath>
type Layout struct {
	Root        string
	AdapterName string

	// Slash-separated paths, relative to a versioned installation directory.
	ExecutableRelPath string
	ScriptRelPath     string
}

func NewLayout(root, adapterName, executableRelPath, scriptRelPath string) (*Layout, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("adapter root must be an absolute path, got '%s'", root)
	}
	if adapterName == "" {
		return nil, errors.New("adapter name must not be empty")
	}

	return &Layout{
		Root:              filepath.Clean(root),
		AdapterName:       adapterName,
		ExecutableRelPath: executableRelPath,
		ScriptRelPath:     scriptRelPath,
	}, nil
}

// InstallDirName returns the name of the directory holding the given version, e.g. "autohotkey_0.9.1".
func (l *Layout) InstallDirName(version string) string {
	return l.AdapterName + versionSeparator + version
}

func (l *Layout) VersionedDir(version string) string {
	return filepath.Join(l.Root, l.InstallDirName(version))
}

func (l *Layout) ExecutablePath(version string) string {
	return filepath.Join(l.VersionedDir(version), filepath.FromSlash(l.ExecutableRelPath))
}

func (l *Layout) ScriptPath(version string) string {
	return filepath.Join(l.VersionedDir(version), filepath.FromSlash(l.ScriptRelPath))
}

// VersionFromDirName extracts the version from an installation directory name.
// The second return value is false if the name does not belong to this adapter,
// or if the version part is empty.
func (l *Layout) VersionFromDirName(name string) (string, bool) {
	version, found := strings.CutPrefix(name, l.AdapterName+versionSeparator)
	if !found || version == "" {
		return "", false
	}
	return version, true
}

// LockfilePath returns the path of the file guarding installation.
// It lives next to the root, because the root itself is wiped when a new version is installed.
func (l *Layout) LockfilePath() string {
	return filepath.Join(filepath.Dir(l.Root), l.AdapterName+lockFileSuffix)
}

// StagingPattern returns a pattern suitable for os.MkdirTemp(filepath.Dir(l.Root), pattern).
// Staging directories are siblings of the root, so that the final rename stays within one file system.
func (l *Layout) StagingPattern() string {
	return stagingPrefix + l.AdapterName + stagingSuffix
}
