/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"encoding/json"

	"github.com/google/go-dap"
)

// TaskDefinition is a debug task as the host hands it over: which adapter to use and with what configuration.
type TaskDefinition struct {
	Label   string `json:"label"`
	Adapter string `json:"adapter"`

	// Config is the adapter-specific configuration document.
	Config json.RawMessage `json:"config"`
}

// LaunchSpec is the fully resolved description of how to start the debug adapter process,
// and how to talk to it once it is running.
// It is built fresh for every debug session.
type LaunchSpec struct {
	// Command is the path to the executable to run.
	Command string `json:"command"`

	// Args are the arguments for Command, in order.
	Args []string `json:"arguments"`

	Env []EnvVar `json:"envs"`

	Cwd string `json:"cwd,omitempty"`

	// Connection is nil when the adapter communicates over its standard streams.
	Connection *TransportDescriptor `json:"connection,omitempty"`

	// Configuration is the configuration document to send with the launch or attach request.
	Configuration json.RawMessage `json:"configuration"`

	Request RequestKind `json:"request"`
}

// Mode returns how the host is expected to talk to the adapter.
func (ls *LaunchSpec) Mode() DebugAdapterMode {
	if ls.Connection != nil {
		return DebugAdapterModeTCPConnect
	}
	return DebugAdapterModeStdio
}

// StartDebuggingArguments returns the configuration and request kind in the shape of DAP "startDebugging" request arguments.
func (ls *LaunchSpec) StartDebuggingArguments() (dap.StartDebuggingRequestArguments, error) {
	config, parseErr := ParseConfiguration(ls.Configuration)
	if parseErr != nil {
		return dap.StartDebuggingRequestArguments{}, parseErr
	}

	configuration, mapErr := config.AsMap()
	if mapErr != nil {
		return dap.StartDebuggingRequestArguments{}, mapErr
	}

	return dap.StartDebuggingRequestArguments{
		Configuration: configuration,
		Request:       string(ls.Request),
	}, nil
}

// DebugAdapterBinary is what the host receives for a debug task:
// how to start the adapter, and the arguments of the request that starts the debug session.
type DebugAdapterBinary struct {
	*LaunchSpec

	RequestArgs dap.StartDebuggingRequestArguments `json:"request_args"`
}

func NewDebugAdapterBinary(ls *LaunchSpec) (*DebugAdapterBinary, error) {
	requestArgs, err := ls.StartDebuggingArguments()
	if err != nil {
		return nil, err
	}

	return &DebugAdapterBinary{
		LaunchSpec:  ls,
		RequestArgs: requestArgs,
	}, nil
}
