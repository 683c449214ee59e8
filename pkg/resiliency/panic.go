/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package resiliency

import (
	"fmt"
	"runtime/debug"

	"github.com/go-logr/logr"
)

// PanicError is a recovered panic value together with the stack of the goroutine that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (pe *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", pe.Value)
}

// Unwrap returns the panic value if it is an error.
func (pe *PanicError) Unwrap() error {
	if err, isErr := pe.Value.(error); isErr {
		return err
	}
	return nil
}

// MakePanicError turns the result of recover() into a logged *PanicError.
// Returns nil if there was no panic.
func MakePanicError(panicVal any, log logr.Logger) error {
	if panicVal == nil {
		return nil
	}

	pe := &PanicError{Value: panicVal, Stack: debug.Stack()}
	log.Error(pe, "ahkdap stopped because of an unexpected error", "Stack", string(pe.Stack))
	return pe
}
