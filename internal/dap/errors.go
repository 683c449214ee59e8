/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"errors"
)

// The sentinel errors below start the message of the error returned to the host,
// e.g. "Unsupported adapter 'foo', expected 'autohotkey'", and can be matched with errors.Is().
var (
	// ErrUnsupportedAdapter is returned when the caller asks for an adapter this program does not provide.
	ErrUnsupportedAdapter = errors.New("Unsupported adapter")

	// ErrInvalidRequestType is returned when the "request" field of a configuration is neither "launch" nor "attach".
	ErrInvalidRequestType = errors.New("Invalid request type")

	// ErrConfigParse is returned when a configuration document is not a well-formed JSON object.
	ErrConfigParse = errors.New("Failed to parse config JSON")

	// ErrReleaseLookupFailed is returned when the release index could not be queried.
	ErrReleaseLookupFailed = errors.New("release lookup failed")

	// ErrNoMatchingAsset is returned when the latest release has no asset with the expected package suffix.
	ErrNoMatchingAsset = errors.New("no matching release asset")

	// ErrNoCachedVersion is returned when the release lookup failed and no installation exists on disk.
	ErrNoCachedVersion = errors.New("Failed to fetch release and no cached version found")

	// ErrInstallFailed is returned when the installation directory could not be read, created or populated.
	ErrInstallFailed = errors.New("debug adapter installation failed")

	// ErrMissingRuntimeFile is returned when the adapter executable or its entry script is missing after installation.
	ErrMissingRuntimeFile = errors.New("debug adapter file not found")

	// ErrScriptNotFound is returned when the program to debug does not exist.
	ErrScriptNotFound = errors.New("Script file not found")

	// ErrAttachNotSupported is returned for attach requests, which the adapter cannot serve.
	ErrAttachNotSupported = errors.New("does not support attach mode")
)

// IsRecoverableReleaseError returns true if the error came from the release lookup
// and may be recovered from by using a previously installed version.
func IsRecoverableReleaseError(err error) bool {
	return errors.Is(err, ErrReleaseLookupFailed) ||
		errors.Is(err, ErrNoMatchingAsset)
}
