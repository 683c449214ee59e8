/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package adapter

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/ahkdap/internal/adapterpaths"
	"github.com/microsoft/ahkdap/pkg/osutil"
)

func newTestLayout(t *testing.T) *adapterpaths.Layout {
	layout, err := adapterpaths.NewLayout(
		filepath.Join(t.TempDir(), AutoHotkey.Name),
		AutoHotkey.Name,
		AutoHotkey.ExecutableRelPath,
		AutoHotkey.ScriptRelPath,
	)
	require.NoError(t, err)
	return layout
}

func touch(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), osutil.PermissionOwnerAllOthersTraverse))
	require.NoError(t, os.WriteFile(path, []byte{}, osutil.PermissionOwnerReadWriteOthersRead))
}

func installFiles(t *testing.T, layout *adapterpaths.Layout, version string) {
	touch(t, layout.ExecutablePath(version))
	touch(t, layout.ScriptPath(version))
}

type fakeInstaller struct {
	version  string
	err      error
	versions []string
	calls    atomic.Int32
}

func (fi *fakeInstaller) EnsureInstalled(_ context.Context) (string, error) {
	fi.calls.Add(1)
	return fi.version, fi.err
}

func (fi *fakeInstaller) InstalledVersions() ([]string, error) {
	return fi.versions, nil
}
