/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package osutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Returns the trimmed value of the environment variable, or defaultVal if the variable is unset or blank.
func EnvVarStringWithDefault(varName string, defaultVal string) string {
	val, found := os.LookupEnv(varName)
	if !found || strings.TrimSpace(val) == "" {
		return defaultVal
	}
	return strings.TrimSpace(val)
}

// Interprets the environment variable as a whole number of seconds.
// Unset, blank, malformed and non-positive values all yield defaultVal.
func EnvVarSecondsWithDefault(varName string, defaultVal time.Duration) time.Duration {
	value, found := os.LookupEnv(varName)
	if !found || strings.TrimSpace(value) == "" {
		return defaultVal
	}

	secs, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil || secs <= 0 {
		return defaultVal
	}

	return time.Duration(secs) * time.Second
}
