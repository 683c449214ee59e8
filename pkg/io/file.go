/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package io

import (
	"errors"
	"os"
)

func OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

// Writes data to the named file, creating it if necessary.
// Unlike os.WriteFile, a failure to close the file is reported alongside any write error.
func WriteFile(name string, data []byte, perm os.FileMode) error {
	file, err := OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if closeErr := file.Close(); closeErr != nil || err != nil {
		return errors.Join(err, closeErr)
	}

	return nil
}
