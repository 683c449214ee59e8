/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"fmt"
)

// RequestKind tells the debug adapter whether to start a new debuggee or connect to an existing one.
type RequestKind string

const (
	RequestKindLaunch RequestKind = "launch"
	RequestKindAttach RequestKind = "attach"
)

// ParseRequestKind maps the value of the "request" configuration field to a RequestKind.
// A missing value (nil) means launch.
func ParseRequestKind(value *string) (RequestKind, error) {
	if value == nil {
		return RequestKindLaunch, nil
	}

	switch RequestKind(*value) {
	case RequestKindLaunch:
		return RequestKindLaunch, nil
	case RequestKindAttach:
		return RequestKindAttach, nil
	default:
		return "", fmt.Errorf("%w '%s', expected '%s' or '%s'", ErrInvalidRequestType, *value, RequestKindLaunch, RequestKindAttach)
	}
}

// ResolveRequestKind parses a raw configuration document and determines its request kind.
func ResolveRequestKind(document []byte) (RequestKind, error) {
	config, parseErr := ParseConfiguration(document)
	if parseErr != nil {
		return "", parseErr
	}
	return config.RequestKind()
}
