/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package version

import (
	"strconv"
	"time"
)

const (
	DevelopmentVersion = "dev"
)

// Set at build time via -ldflags "-X github.com/microsoft/ahkdap/internal/version.ProductVersion=..."
var (
	ProductVersion = DevelopmentVersion
	CommitHash     = ""
	BuildTimestamp = ""
)

type VersionOutput struct {
	Version    string     `json:"version"`
	CommitHash string     `json:"commitHash,omitempty"`
	BuildTime  *time.Time `json:"buildTimestamp,omitempty"`

	// The version of the AutoHotkey debug adapter this program installs and launches, if known.
	AdapterVersion string `json:"adapterVersion,omitempty"`
}

func Version() VersionOutput {
	output := VersionOutput{
		Version:    ProductVersion,
		CommitHash: CommitHash,
		BuildTime:  parseBuildTimestamp(BuildTimestamp),
	}
	if output.Version == "" {
		output.Version = DevelopmentVersion
	}
	return output
}

// The build timestamp is either Unix seconds or an RFC 3339 string.
func parseBuildTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}

	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		t := time.Unix(seconds, 0).UTC()
		return &t
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}

	return nil
}
