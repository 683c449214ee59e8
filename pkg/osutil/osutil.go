/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package osutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
)

var (
	lf   = []byte("\n")
	crlf = []byte("\r\n")
)

func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func WithNewline(b []byte) []byte {
	// Do not modify the original slice (e.g. don't do ret = append(b, '\n'))
	return bytes.Join([][]byte{b, LineSep()}, nil)
}

func LineSep() []byte {
	if IsWindows() {
		return crlf
	} else {
		return lf
	}
}

type EntryKind uint8

const (
	FileTarget EntryKind = iota
	DirTarget
)

// Reports whether an entry of the given kind exists at path.
// Errors other than "does not exist" are returned to the caller,
// so that a permission problem is not mistaken for a missing file.
func EntryExists(path string, kind EntryKind) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	case kind == DirTarget && !info.IsDir():
		return false, fmt.Errorf("'%s' exists, but is not a directory", path)
	case kind == FileTarget && info.IsDir():
		return false, fmt.Errorf("'%s' is a directory, expected a file", path)
	default:
		return true, nil
	}
}
