/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package adapter

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/microsoft/ahkdap/internal/adapterpaths"
	"github.com/microsoft/ahkdap/internal/config"
	"github.com/microsoft/ahkdap/internal/dap"
	"github.com/microsoft/ahkdap/internal/install"
	"github.com/microsoft/ahkdap/internal/release"
)

// Installer provides an installed adapter version.
type Installer interface {
	EnsureInstalled(ctx context.Context) (string, error)
	InstalledVersions() ([]string, error)
}

var _ Installer = (*install.Cache)(nil)

// Debugger is what the host talks to: it validates the adapter name and then
// resolves request kinds, builds launch specifications, and translates debug requests.
type Debugger struct {
	descriptor *Descriptor
	installer  Installer
	builder    *Builder
	translator *Translator
	log        logr.Logger
}

// NewDebugger wires a Debugger that installs the adapter from its GitHub releases.
func NewDebugger(descriptor *Descriptor, settings *config.Settings, log logr.Logger) (*Debugger, error) {
	root, rootErr := settings.ResolveAdapterRoot(descriptor.Name)
	if rootErr != nil {
		return nil, rootErr
	}

	layout, layoutErr := adapterpaths.NewLayout(root, descriptor.Name, descriptor.ExecutableRelPath, descriptor.ScriptRelPath)
	if layoutErr != nil {
		return nil, layoutErr
	}

	locator := release.NewLocator(release.LocatorOptions{
		Repository:        descriptor.Repository,
		AssetSuffix:       descriptor.AssetSuffix,
		ExpectedAssetName: descriptor.ExpectedAssetName,
		APIURL:            settings.ReleaseAPIURL,
		Token:             settings.GitHubToken,
		Timeout:           settings.HTTPTimeout,
	}, log.WithName("release"))

	cache, cacheErr := install.NewCache(install.CacheOptions{
		Layout:     layout,
		Source:     locator,
		Downloader: install.NewHTTPDownloader(settings.HTTPTimeout, log.WithName("download")),
		Ordering:   settings.VersionOrdering,
	}, log.WithName("install"))
	if cacheErr != nil {
		return nil, cacheErr
	}

	return newDebugger(descriptor, layout, cache, log), nil
}

func newDebugger(descriptor *Descriptor, layout *adapterpaths.Layout, installer Installer, log logr.Logger) *Debugger {
	return &Debugger{
		descriptor: descriptor,
		installer:  installer,
		builder:    NewBuilder(descriptor, layout, log.WithName("builder")),
		translator: NewTranslator(descriptor),
		log:        log,
	}
}

func (d *Debugger) Descriptor() *Descriptor {
	return d.descriptor
}

// GetLaunchSpec makes sure the adapter is installed and returns the specification for launching it.
func (d *Debugger) GetLaunchSpec(
	ctx context.Context,
	adapterName string,
	task dap.TaskDefinition,
	overridePath string,
	worktreeRoot string,
) (*dap.LaunchSpec, error) {
	if err := d.descriptor.ValidateName(adapterName); err != nil {
		return nil, err
	}

	version, installErr := d.installer.EnsureInstalled(ctx)
	if installErr != nil {
		return nil, installErr
	}

	spec, buildErr := d.builder.Build(version, task, overridePath, worktreeRoot)
	if buildErr != nil {
		return nil, buildErr
	}

	d.log.Info("Debug adapter ready", "Adapter", adapterName, "Version", version, "Task", task.Label)
	return spec, nil
}

// RequestKind tells whether the configuration document asks for a launch or an attach session.
func (d *Debugger) RequestKind(adapterName string, document []byte) (dap.RequestKind, error) {
	if err := d.descriptor.ValidateName(adapterName); err != nil {
		return "", err
	}
	return dap.ResolveRequestKind(document)
}

func (d *Debugger) ConfigToScenario(config dap.DebugConfig) (*dap.DebugScenario, error) {
	return d.translator.ConfigToScenario(config)
}

// EnsureInstalled installs the adapter if needed and returns the version in use.
func (d *Debugger) EnsureInstalled(ctx context.Context) (string, error) {
	return d.installer.EnsureInstalled(ctx)
}

func (d *Debugger) InstalledVersions() ([]string, error) {
	versions, err := d.installer.InstalledVersions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dap.ErrInstallFailed, err)
	}
	return versions, nil
}
