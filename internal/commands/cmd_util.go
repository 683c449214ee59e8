/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"os"

	"github.com/microsoft/ahkdap/pkg/logger"
	"github.com/microsoft/ahkdap/pkg/osutil"
)

// ErrorExit reports the error on stderr, flushes the log, and exits the process with the given code.
func ErrorExit(log *logger.Logger, err error, exitCode int) {
	log.V(1).Info("Command failed", "Error", err.Error(), "ExitCode", exitCode)
	_, _ = os.Stderr.Write(osutil.WithNewline([]byte(err.Error())))
	log.Flush()
	os.Exit(exitCode)
}
