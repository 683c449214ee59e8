/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microsoft/ahkdap/pkg/logger"
)

func NewRequestKindCommand(log *logger.Logger, opts *rootOptions) *cobra.Command {
	var adapterName, configPath string

	requestKindCmd := &cobra.Command{
		Use:   "request-kind",
		Short: "Prints whether a debug configuration launches or attaches",
		Long:  `Prints 'launch' or 'attach', depending on the "request" field of the debug configuration. A missing "request" field means 'launch'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			document, readErr := readConfigDocument(cmd, configPath)
			if readErr != nil {
				return readErr
			}

			debugger, err := newDebugger(log.Logger, opts)
			if err != nil {
				return err
			}

			kind, kindErr := debugger.RequestKind(adapterName, document)
			if kindErr != nil {
				return kindErr
			}

			fmt.Fprintln(cmd.OutOrStdout(), kind)
			return nil
		},
		Args: cobra.NoArgs,
	}

	requestKindCmd.Flags().StringVar(&adapterName, adapterFlag, "", "Name of the debug adapter (must be 'autohotkey')")
	requestKindCmd.Flags().StringVar(&configPath, "config", "", "Path to the debug configuration document (JSON), or '-' to read it from standard input")
	_ = requestKindCmd.MarkFlagRequired(adapterFlag)
	_ = requestKindCmd.MarkFlagRequired("config")

	return requestKindCmd
}
