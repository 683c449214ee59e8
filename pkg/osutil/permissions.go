/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package osutil

import "os"

const (
	PermissionOnlyOwnerReadWrite         os.FileMode = 0600
	PermissionOwnerReadWriteOthersRead   os.FileMode = 0644
	PermissionOnlyOwnerReadWriteTraverse os.FileMode = 0700 // For directories
	PermissionOwnerAllOthersTraverse     os.FileMode = 0755 // For installed directories that other tools need to read
)
