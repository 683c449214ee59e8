/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const stdinPath = "-"

func writeJSON(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("could not write command output: %w", err)
	}
	return nil
}

// Reads the debug configuration document from a file, or from standard input if path is "-".
func readConfigDocument(cmd *cobra.Command, path string) ([]byte, error) {
	var document []byte
	var readErr error

	if path == stdinPath {
		document, readErr = io.ReadAll(cmd.InOrStdin())
	} else {
		document, readErr = os.ReadFile(path)
	}
	if readErr != nil {
		return nil, fmt.Errorf("could not read the debug configuration from '%s': %w", path, readErr)
	}

	return document, nil
}
