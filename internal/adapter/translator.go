/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package adapter

import (
	"fmt"
	"path/filepath"

	"github.com/microsoft/ahkdap/internal/dap"
	"github.com/microsoft/ahkdap/pkg/osutil"
	"github.com/microsoft/ahkdap/pkg/pointers"
)

// Translator converts typed debug requests into scenarios carrying the adapter configuration document.
type Translator struct {
	descriptor *Descriptor
}

func NewTranslator(descriptor *Descriptor) *Translator {
	return &Translator{descriptor: descriptor}
}

func (t *Translator) ConfigToScenario(config dap.DebugConfig) (*dap.DebugScenario, error) {
	if err := t.descriptor.ValidateName(config.Adapter); err != nil {
		return nil, err
	}

	var document []byte
	var docErr error

	switch req := config.Request.(type) {
	case *dap.LaunchRequest:
		document, docErr = t.launchDocument(req, config.StopOnEntry)
	case *dap.AttachRequest:
		return nil, fmt.Errorf("%s debugger %w", t.descriptor.DisplayName, dap.ErrAttachNotSupported)
	case nil:
		return nil, fmt.Errorf("debug configuration '%s' does not say whether to launch or attach", config.Label)
	default:
		return nil, fmt.Errorf("unknown debug request type %T", req)
	}

	if docErr != nil {
		return nil, docErr
	}

	return &dap.DebugScenario{
		Adapter: config.Adapter,
		Label:   config.Label,
		Config:  document,
	}, nil
}

func (t *Translator) launchDocument(req *dap.LaunchRequest, stopOnEntry *bool) ([]byte, error) {
	if req.Program != "" {
		programPath := req.Program
		if !filepath.IsAbs(programPath) && req.Cwd != nil && *req.Cwd != "" {
			programPath = filepath.Join(*req.Cwd, programPath)
		}

		exists, _ := osutil.EntryExists(programPath, osutil.FileTarget)
		if !exists {
			return nil, fmt.Errorf("%w: '%s'. Check the 'program' field in your debug configuration", dap.ErrScriptNotFound, programPath)
		}
	}

	port := t.descriptor.Port
	return dap.LaunchDocument{
		Request:     dap.RequestKindLaunch,
		Program:     req.Program,
		Cwd:         pointers.Duplicate(req.Cwd),
		Args:        req.Args,
		StopOnEntry: pointers.TrueValue(stopOnEntry),
		Port:        &port,
	}.Marshal()
}
