/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package install

import (
	"sync/atomic"
)

// VersionCell holds the resolved adapter version. It can be written only once;
// the first successful write wins and later writes are discarded.
// The zero value is an empty cell ready to use.
type VersionCell struct {
	value atomic.Pointer[string]
}

func (vc *VersionCell) Get() (string, bool) {
	v := vc.value.Load()
	if v == nil {
		return "", false
	}
	return *v, true
}

// Set stores the version if the cell is empty, and returns the version held by the cell afterwards.
func (vc *VersionCell) Set(version string) string {
	if vc.value.CompareAndSwap(nil, &version) {
		return version
	}
	return *vc.value.Load()
}
