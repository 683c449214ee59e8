/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package config gathers the settings that control where the adapter is installed from and to.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/microsoft/ahkdap/internal/adapterpaths"
	"github.com/microsoft/ahkdap/internal/install"
	"github.com/microsoft/ahkdap/internal/release"
	"github.com/microsoft/ahkdap/pkg/osutil"
)

const (
	ReleaseAPIURLEnv   = "AHKDAP_RELEASE_API_URL"
	GitHubTokenEnv     = "AHKDAP_GITHUB_TOKEN"
	VersionOrderingEnv = "AHKDAP_VERSION_ORDERING"
	HTTPTimeoutEnv     = "AHKDAP_HTTP_TIMEOUT_SECONDS"

	DefaultEnvFile = ".env"
)

type Settings struct {
	// Empty means "use the default location", see adapterpaths.GetAdapterRoot().
	AdapterRoot string

	ReleaseAPIURL   string
	GitHubToken     string
	VersionOrdering install.VersionOrdering
	HTTPTimeout     time.Duration
}

// LoadEnvFiles adds variables from the given .env files to the process environment.
// Variables that are already set are not overridden.
// With no arguments, the .env file in the current directory is loaded if it exists.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not load '%s': %w", DefaultEnvFile, err)
		}
		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("could not load environment file(s) %v: %w", files, err)
	}
	return nil
}

// Load reads the settings from the environment.
func Load() (*Settings, error) {
	ordering, orderingErr := install.ParseVersionOrdering(osutil.EnvVarStringWithDefault(VersionOrderingEnv, ""))
	if orderingErr != nil {
		return nil, fmt.Errorf("invalid value of %s: %w", VersionOrderingEnv, orderingErr)
	}

	settings := &Settings{
		ReleaseAPIURL:   osutil.EnvVarStringWithDefault(ReleaseAPIURLEnv, release.DefaultAPIURL),
		GitHubToken:     osutil.EnvVarStringWithDefault(GitHubTokenEnv, ""),
		VersionOrdering: ordering,
		HTTPTimeout:     osutil.EnvVarSecondsWithDefault(HTTPTimeoutEnv, release.DefaultTimeout),
	}

	if root := osutil.EnvVarStringWithDefault(adapterpaths.AdapterRootEnv, ""); root != "" {
		if err := settings.SetAdapterRoot(root); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

func (s *Settings) SetAdapterRoot(root string) error {
	absRoot, absErr := filepath.Abs(filepath.Clean(root))
	if absErr != nil {
		return fmt.Errorf("invalid adapter installation directory '%s': %w", root, absErr)
	}
	s.AdapterRoot = absRoot
	return nil
}

// ResolveAdapterRoot returns the configured adapter root, or the default root for the named adapter.
func (s *Settings) ResolveAdapterRoot(adapterName string) (string, error) {
	if s.AdapterRoot != "" {
		return s.AdapterRoot, nil
	}
	return adapterpaths.GetAdapterRoot(adapterName)
}
