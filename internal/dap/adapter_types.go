/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"time"
)

// DefaultAdapterConnectionTimeout is the default timeout for connecting to the debug adapter.
const DefaultAdapterConnectionTimeout = 10 * time.Second

// LoopbackHost is the only host a socket-based debug adapter is expected to listen on.
const LoopbackHost = "127.0.0.1"

// DebugAdapterMode specifies how the host communicates with the debug adapter.
type DebugAdapterMode string

const (
	// DebugAdapterModeStdio indicates the adapter uses stdin/stdout for DAP communication.
	DebugAdapterModeStdio DebugAdapterMode = "stdio"

	// DebugAdapterModeTCPConnect indicates the adapter listens on a port and the host connects to it.
	DebugAdapterModeTCPConnect DebugAdapterMode = "tcp-connect"
)

// EnvVar is a single environment variable passed to the debug adapter process.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TransportDescriptor describes the socket the host should connect to after starting the adapter.
// It is present only when the adapter does not communicate over its standard streams.
type TransportDescriptor struct {
	// Host is always the loopback address.
	Host string `json:"host"`

	Port int `json:"port"`

	// TimeoutMs bounds how long the host waits for the adapter to accept the connection.
	TimeoutMs int64 `json:"timeout,omitempty"`
}

// NewLoopbackTransport returns a descriptor for an adapter listening on the loopback interface.
func NewLoopbackTransport(port int, timeout time.Duration) *TransportDescriptor {
	return &TransportDescriptor{
		Host:      LoopbackHost,
		Port:      port,
		TimeoutMs: timeout.Milliseconds(),
	}
}
