/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

/*
Package dap holds the Debug Adapter Protocol (DAP) types exchanged with a debugger host
when it asks how to start a debug adapter.

# Key Types

  - TaskDefinition: a debug task as handed over by the host (adapter name, label, configuration document)
  - Configuration: the validated form of a configuration document
  - LaunchSpec: how to start the adapter process and how to connect to it
  - DebugConfig / DebugScenario: a typed debug request and the scenario it translates to

# Request Kind

The "request" field of a configuration document selects a launch or an attach session:

	{}                      -> launch
	{"request": null}       -> launch
	{"request": "launch"}   -> launch
	{"request": "attach"}   -> attach
	{"request": "debug"}    -> ErrInvalidRequestType

# Transport

An adapter either talks DAP over its standard streams (DebugAdapterModeStdio), or listens on a
loopback port that the host connects to (DebugAdapterModeTCPConnect). In the latter case
the LaunchSpec carries a TransportDescriptor with the port and the connection timeout.

# Errors

All errors returned to the host start with one of the sentinel errors in this package,
so callers can classify them with errors.Is().
*/
package dap
