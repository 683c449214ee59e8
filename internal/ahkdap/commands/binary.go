/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/microsoft/ahkdap/internal/dap"
	"github.com/microsoft/ahkdap/pkg/logger"
)

type binaryOptions struct {
	adapterName  string
	configPath   string
	label        string
	adapterPath  string
	worktreeRoot string
}

func NewBinaryCommand(log *logger.Logger, opts *rootOptions) *cobra.Command {
	bopts := &binaryOptions{}

	binaryCmd := &cobra.Command{
		Use:   "binary",
		Short: "Prints the launch specification for a debug task",
		Long: `Makes sure the debug adapter is installed, then prints how to start it (command, arguments, working directory, transport)
	together with the configuration document, the request kind and the DAP "startDebugging" request arguments, as JSON.`,
		RunE: runBinary(log, opts, bopts),
		Args: cobra.NoArgs,
	}

	flags := binaryCmd.Flags()
	flags.StringVar(&bopts.adapterName, adapterFlag, "", "Name of the debug adapter (must be 'autohotkey')")
	flags.StringVar(&bopts.configPath, "config", "", "Path to the debug configuration document (JSON), or '-' to read it from standard input")
	flags.StringVar(&bopts.label, "label", "", "Label of the debug task")
	flags.StringVar(&bopts.adapterPath, "adapter-path", "", "Use this AutoHotkey executable instead of the installed one")
	flags.StringVar(&bopts.worktreeRoot, "worktree", "", "Working directory for the adapter. Defaults to the current directory")
	_ = binaryCmd.MarkFlagRequired(adapterFlag)
	_ = binaryCmd.MarkFlagRequired("config")

	return binaryCmd
}

func runBinary(log *logger.Logger, opts *rootOptions, bopts *binaryOptions) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := log.WithName("binary")

		document, readErr := readConfigDocument(cmd, bopts.configPath)
		if readErr != nil {
			return readErr
		}

		worktree := bopts.worktreeRoot
		if worktree == "" {
			cwd, cwdErr := os.Getwd()
			if cwdErr != nil {
				return fmt.Errorf("could not determine the working directory: %w", cwdErr)
			}
			worktree = cwd
		}

		debugger, err := newDebugger(log, opts)
		if err != nil {
			return err
		}

		task := dap.TaskDefinition{
			Label:   bopts.label,
			Adapter: bopts.adapterName,
			Config:  document,
		}
		spec, specErr := debugger.GetLaunchSpec(cmd.Context(), bopts.adapterName, task, bopts.adapterPath, worktree)
		if specErr != nil {
			log.V(1).Info("Launch specification could not be created", "Error", specErr.Error())
			return specErr
		}

		binary, binaryErr := dap.NewDebugAdapterBinary(spec)
		if binaryErr != nil {
			return binaryErr
		}

		return writeJSON(cmd, binary)
	}
}
