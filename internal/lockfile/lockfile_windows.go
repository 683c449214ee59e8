/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

//go:build windows

package lockfile

import (
	"errors"
	"math"
	"os"

	"golang.org/x/sys/windows"
)

// The whole file is locked: offset zero, maximum length.
const (
	lockRangeLow  = math.MaxUint32
	lockRangeHigh = math.MaxUint32
)

func lockExclusive(f *os.File) error {
	overlapped := new(windows.Overlapped)
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	return windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, lockRangeLow, lockRangeHigh, overlapped)
}

// Windows releases the locks of a closed handle at its own pace, so the lock is always released explicitly.
func unlock(f *os.File) error {
	overlapped := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockRangeLow, lockRangeHigh, overlapped)
}

func isContended(err error) bool {
	return errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
