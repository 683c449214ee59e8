/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package io_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ahkio "github.com/microsoft/ahkdap/pkg/io"
)

func writeTestZip(t *testing.T, entries map[string]string) string {
	archivePath := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(archivePath)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, createErr := zw.Create(name)
		require.NoError(t, createErr)
		_, writeErr := w.Write([]byte(content))
		require.NoError(t, writeErr)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return archivePath
}

func TestExtractZip(t *testing.T) {
	t.Parallel()

	archivePath := writeTestZip(t, map[string]string{
		"extension/bin/AutoHotkey.exe":      "exe",
		"extension/ahkdbg/debugAdapter.ahk": "script",
		"extension/package.json":            "{}",
	})

	target := filepath.Join(t.TempDir(), "out")
	require.NoError(t, ahkio.ExtractZip(archivePath, target))

	content, readErr := os.ReadFile(filepath.Join(target, "extension", "ahkdbg", "debugAdapter.ahk"))
	require.NoError(t, readErr)
	require.Equal(t, "script", string(content))

	require.FileExists(t, filepath.Join(target, "extension", "bin", "AutoHotkey.exe"))
	require.FileExists(t, filepath.Join(target, "extension", "package.json"))
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	t.Parallel()

	archivePath := writeTestZip(t, map[string]string{
		"../escaped.txt": "nope",
	})

	target := filepath.Join(t.TempDir(), "out")
	err := ahkio.ExtractZip(archivePath, target)
	require.ErrorIs(t, err, ahkio.ErrUnsafeArchivePath)
	require.NoFileExists(t, filepath.Join(filepath.Dir(target), "escaped.txt"))
}

func TestExtractZipMissingArchive(t *testing.T) {
	t.Parallel()

	err := ahkio.ExtractZip(filepath.Join(t.TempDir(), "missing.zip"), t.TempDir())
	require.Error(t, err)
}
