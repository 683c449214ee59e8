/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package io

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/microsoft/ahkdap/pkg/osutil"
)

var ErrUnsafeArchivePath = errors.New("archive entry escapes the target directory")

// Extracts the zip archive at archivePath into targetDir, creating targetDir if necessary.
// Entries whose names would resolve outside of targetDir are rejected.
// Symbolic links are not supported and are skipped.
func ExtractZip(archivePath string, targetDir string) error {
	reader, openErr := zip.OpenReader(archivePath)
	if openErr != nil {
		return fmt.Errorf("could not open archive '%s': %w", archivePath, openErr)
	}
	defer func() { _ = reader.Close() }()

	if err := os.MkdirAll(targetDir, osutil.PermissionOwnerAllOthersTraverse); err != nil {
		return fmt.Errorf("could not create directory '%s': %w", targetDir, err)
	}

	cleanTarget := filepath.Clean(targetDir)
	for _, entry := range reader.File {
		destPath, pathErr := entryPath(cleanTarget, entry.Name)
		if pathErr != nil {
			return pathErr
		}

		mode := entry.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(destPath, osutil.PermissionOwnerAllOthersTraverse); err != nil {
				return fmt.Errorf("could not create directory '%s': %w", destPath, err)
			}
		case mode&os.ModeSymlink != 0:
			continue
		default:
			if err := extractZipFile(entry, destPath); err != nil {
				return err
			}
		}
	}

	return nil
}

func entryPath(targetDir string, name string) (string, error) {
	destPath := filepath.Join(targetDir, filepath.FromSlash(name))
	if destPath != targetDir && !strings.HasPrefix(destPath, targetDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: '%s'", ErrUnsafeArchivePath, name)
	}
	return destPath, nil
}

func extractZipFile(entry *zip.File, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), osutil.PermissionOwnerAllOthersTraverse); err != nil {
		return fmt.Errorf("could not create directory '%s': %w", filepath.Dir(destPath), err)
	}

	src, openErr := entry.Open()
	if openErr != nil {
		return fmt.Errorf("could not read archive entry '%s': %w", entry.Name, openErr)
	}
	defer func() { _ = src.Close() }()

	perm := entry.Mode().Perm()
	if perm == 0 {
		perm = osutil.PermissionOwnerReadWriteOthersRead
	}

	dst, createErr := OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if createErr != nil {
		return fmt.Errorf("could not create file '%s': %w", destPath, createErr)
	}

	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		return fmt.Errorf("could not write file '%s': %w", destPath, errors.Join(copyErr, closeErr))
	}

	return nil
}
