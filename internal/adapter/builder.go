/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package adapter

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/microsoft/ahkdap/internal/adapterpaths"
	"github.com/microsoft/ahkdap/internal/dap"
	"github.com/microsoft/ahkdap/pkg/osutil"
)

// Builder assembles launch specifications for an installed adapter version.
type Builder struct {
	descriptor *Descriptor
	layout     *adapterpaths.Layout
	log        logr.Logger
}

func NewBuilder(descriptor *Descriptor, layout *adapterpaths.Layout, log logr.Logger) *Builder {
	return &Builder{
		descriptor: descriptor,
		layout:     layout,
		log:        log,
	}
}

// Build returns the launch specification for the given adapter version and debug task.
// If overridePath is not empty, it is used as the adapter executable instead of the installed one.
// The adapter runs in worktreeRoot.
func (b *Builder) Build(version string, task dap.TaskDefinition, overridePath string, worktreeRoot string) (*dap.LaunchSpec, error) {
	executable := overridePath
	if executable == "" {
		executable = b.layout.ExecutablePath(version)
	}
	script := b.layout.ScriptPath(version)

	if err := b.checkRuntimeFile(executable, "executable", overridePath != ""); err != nil {
		return nil, err
	}
	if err := b.checkRuntimeFile(script, "entry script", false); err != nil {
		return nil, err
	}

	config, parseErr := dap.ParseConfiguration(task.Config)
	if parseErr != nil {
		return nil, parseErr
	}
	request, kindErr := config.RequestKind()
	if kindErr != nil {
		return nil, kindErr
	}

	config, parseErr = config.WithPort(b.descriptor.Port)
	if parseErr != nil {
		return nil, parseErr
	}

	spec := &dap.LaunchSpec{
		Command:       executable,
		Args:          []string{script},
		Env:           []dap.EnvVar{},
		Cwd:           worktreeRoot,
		Configuration: config.Raw(),
		Request:       request,
	}

	switch b.descriptor.Transport {
	case TransportExplicitTCP:
		spec.Args = append(spec.Args, b.descriptor.PortArgument())
		spec.Connection = dap.NewLoopbackTransport(b.descriptor.Port, b.descriptor.ConnectTimeout)
	case TransportConfigOnly:
		// The port is already in the configuration document.
	default:
		return nil, fmt.Errorf("adapter '%s' has an unknown transport strategy %s", b.descriptor.Name, b.descriptor.Transport)
	}

	b.log.V(1).Info("Launch specification built",
		"Version", version,
		"Command", spec.Command,
		"Args", spec.Args,
		"Request", spec.Request,
		"Mode", spec.Mode(),
	)
	return spec, nil
}

func (b *Builder) checkRuntimeFile(path string, what string, userProvided bool) error {
	exists, existsErr := osutil.EntryExists(path, osutil.FileTarget)
	if existsErr == nil && exists {
		return nil
	}

	advice := fmt.Sprintf("Try deleting '%s' to force the %s debug adapter to be reinstalled", b.layout.Root, b.descriptor.DisplayName)
	if userProvided {
		advice = "Check the debug adapter path in your settings"
	}

	if existsErr != nil {
		return fmt.Errorf("%w: %s debug adapter %s '%s' could not be accessed (%w). %s", dap.ErrMissingRuntimeFile, b.descriptor.DisplayName, what, path, existsErr, advice)
	}
	return fmt.Errorf("%w: %s debug adapter %s '%s' does not exist. %s", dap.ErrMissingRuntimeFile, b.descriptor.DisplayName, what, path, advice)
}
