/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package adapter

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/ahkdap/internal/config"
	"github.com/microsoft/ahkdap/internal/dap"
	"github.com/microsoft/ahkdap/internal/install"
	"github.com/microsoft/ahkdap/pkg/testutil"
)

func decode(t *testing.T, raw json.RawMessage) map[string]any {
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestGetLaunchSpec(t *testing.T) {
	t.Parallel()

	layout := newTestLayout(t)
	installFiles(t, layout, "2.0.0")
	installer := &fakeInstaller{version: "2.0.0"}
	debugger := newDebugger(&AutoHotkey, layout, installer, testutil.NewLogForTesting(t.Name()))

	ctx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	worktree := t.TempDir()
	spec, err := debugger.GetLaunchSpec(ctx, "autohotkey", taskWithConfig(`{"program":"x.ahk"}`), "", worktree)
	require.NoError(t, err)
	assert.Equal(t, layout.ExecutablePath("2.0.0"), spec.Command)
	assert.Equal(t, worktree, spec.Cwd)
	assert.Equal(t, dap.RequestKindLaunch, spec.Request)

	args, argsErr := spec.StartDebuggingArguments()
	require.NoError(t, argsErr)
	assert.Equal(t, "launch", args.Request)
	assert.Equal(t, "x.ahk", args.Configuration["program"])
}

func TestGetLaunchSpec_RejectsAdapterBeforeInstalling(t *testing.T) {
	t.Parallel()

	installer := &fakeInstaller{version: "2.0.0"}
	debugger := newDebugger(&AutoHotkey, newTestLayout(t), installer, testutil.NewLogForTesting(t.Name()))

	ctx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	_, err := debugger.GetLaunchSpec(ctx, "Autohotkey", taskWithConfig(`{}`), "", "")
	require.ErrorIs(t, err, dap.ErrUnsupportedAdapter)
	assert.Equal(t, int32(0), installer.calls.Load())
}

func TestGetLaunchSpec_InstallErrorIsSurfaced(t *testing.T) {
	t.Parallel()

	installErr := errors.Join(dap.ErrNoCachedVersion, errors.New("offline"))
	debugger := newDebugger(&AutoHotkey, newTestLayout(t), &fakeInstaller{err: installErr}, testutil.NewLogForTesting(t.Name()))

	ctx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	_, err := debugger.GetLaunchSpec(ctx, "autohotkey", taskWithConfig(`{}`), "", "")
	require.ErrorIs(t, err, dap.ErrNoCachedVersion)
}

func TestRequestKind(t *testing.T) {
	t.Parallel()

	debugger := newDebugger(&AutoHotkey, newTestLayout(t), &fakeInstaller{}, testutil.NewLogForTesting(t.Name()))

	kind, err := debugger.RequestKind("autohotkey", []byte(`{"request":"attach"}`))
	require.NoError(t, err)
	assert.Equal(t, dap.RequestKindAttach, kind)

	kind, err = debugger.RequestKind("autohotkey", []byte(`{"request":null}`))
	require.NoError(t, err)
	assert.Equal(t, dap.RequestKindLaunch, kind)

	_, err = debugger.RequestKind("", []byte(`{"request":"attach"}`))
	require.ErrorIs(t, err, dap.ErrUnsupportedAdapter)

	// The adapter name is checked before the document is looked at.
	_, err = debugger.RequestKind("lua", []byte(`not json`))
	require.ErrorIs(t, err, dap.ErrUnsupportedAdapter)
}

func TestNewDebugger(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	settings := &config.Settings{
		AdapterRoot:     root,
		ReleaseAPIURL:   "http://127.0.0.1:1",
		VersionOrdering: install.VersionOrderingSemver,
		HTTPTimeout:     time.Second,
	}

	debugger, err := NewDebugger(&AutoHotkey, settings, testutil.NewLogForTesting(t.Name()))
	require.NoError(t, err)
	assert.Equal(t, "autohotkey", debugger.Descriptor().Name)

	versions, err := debugger.InstalledVersions()
	require.NoError(t, err)
	assert.Empty(t, versions)

	ctx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	// Nothing listens on the release API port and nothing is installed.
	_, err = debugger.EnsureInstalled(ctx)
	require.ErrorIs(t, err, dap.ErrNoCachedVersion)
}
