/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package adapter turns debug tasks and typed debug requests into launch specifications for the AutoHotkey debug adapter.
package adapter

import (
	"fmt"
	"time"

	"github.com/microsoft/ahkdap/internal/dap"
)

// TransportStrategy determines how the port the adapter listens on is communicated.
type TransportStrategy uint8

const (
	// The port is passed as a process argument and in the configuration document,
	// and the host is given an explicit TCP connection descriptor.
	TransportExplicitTCP TransportStrategy = iota

	// The port is only injected into the configuration document; the host negotiates the transport on its own.
	TransportConfigOnly
)

func (ts TransportStrategy) String() string {
	switch ts {
	case TransportExplicitTCP:
		return "explicit-tcp"
	case TransportConfigOnly:
		return "config-only"
	default:
		return fmt.Sprintf("TransportStrategy(%d)", uint8(ts))
	}
}

// Descriptor holds everything that is specific to one debug adapter.
type Descriptor struct {
	// Name is the identifier the host uses to ask for this adapter. Matched case-sensitively.
	Name        string
	DisplayName string

	// GitHub repository ("owner/name") that publishes the adapter.
	Repository string

	// Release assets are named <AssetBaseName>-<version><AssetSuffix>.
	AssetBaseName string
	AssetSuffix   string

	// Slash-separated paths relative to an installation directory.
	ExecutableRelPath string
	ScriptRelPath     string

	Port           int
	ConnectTimeout time.Duration
	Transport      TransportStrategy
}

var AutoHotkey = Descriptor{
	Name:              "autohotkey",
	DisplayName:       "AutoHotkey",
	Repository:        "helsmy/autohotkey-debug-adapter",
	AssetBaseName:     "autohotkey-debug",
	AssetSuffix:       ".vsix",
	ExecutableRelPath: "extension/bin/AutoHotkey.exe",
	ScriptRelPath:     "extension/ahkdbg/debugAdapter.ahk",
	Port:              9005,
	ConnectTimeout:    dap.DefaultAdapterConnectionTimeout,
	Transport:         TransportExplicitTCP,
}

// ValidateName fails unless name is exactly the identifier of this adapter.
func (d *Descriptor) ValidateName(name string) error {
	if name != d.Name {
		return fmt.Errorf("%w '%s', expected '%s'", dap.ErrUnsupportedAdapter, name, d.Name)
	}
	return nil
}

func (d *Descriptor) ExpectedAssetName(version string) string {
	return fmt.Sprintf("%s-%s%s", d.AssetBaseName, version, d.AssetSuffix)
}

func (d *Descriptor) PortArgument() string {
	return fmt.Sprintf("--port=%d", d.Port)
}
