/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"encoding/json"
)

// DebugRequest is either a *LaunchRequest or an *AttachRequest.
// The set of implementations is closed; consumers are expected to handle both in a type switch.
type DebugRequest interface {
	isDebugRequest()
}

// LaunchRequest asks for a new debuggee process to be started.
type LaunchRequest struct {
	// Program is the script to debug. May be empty, in which case the adapter decides what to run.
	Program string `json:"program"`

	Cwd *string `json:"cwd,omitempty"`

	Args []string `json:"args,omitempty"`
}

// AttachRequest asks to attach to an already running process.
type AttachRequest struct {
	ProcessID *int `json:"processId,omitempty"`
}

func (*LaunchRequest) isDebugRequest() {}
func (*AttachRequest) isDebugRequest() {}

var _ DebugRequest = (*LaunchRequest)(nil)
var _ DebugRequest = (*AttachRequest)(nil)

// DebugConfig is the editor-agnostic, typed description of a debug session.
type DebugConfig struct {
	Label   string
	Adapter string
	Request DebugRequest

	// StopOnEntry is nil when the user did not say whether to pause at the program entry.
	StopOnEntry *bool
}

// DebugScenario is a named, reusable debug session configuration.
type DebugScenario struct {
	Adapter string `json:"adapter"`
	Label   string `json:"label"`

	// Config is the adapter-specific configuration document.
	Config json.RawMessage `json:"config"`

	TCPConnection *TransportDescriptor `json:"tcp_connection,omitempty"`

	// Build is the label of a task to run before the session starts.
	Build *string `json:"build,omitempty"`
}
