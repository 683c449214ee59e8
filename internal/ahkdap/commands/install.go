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

func NewInstallCommand(log *logger.Logger, opts *rootOptions) *cobra.Command {
	var list bool

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Installs the latest version of the debug adapter",
		Long: `Installs the latest version of the debug adapter, unless it is already installed, and prints the version in use.

	With --list, prints the installed versions instead, oldest first.`,
		RunE: runInstall(log, opts, &list),
		Args: cobra.NoArgs,
	}

	installCmd.Flags().BoolVar(&list, "list", false, "List installed versions instead of installing")

	return installCmd
}

func runInstall(log *logger.Logger, opts *rootOptions, list *bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := log.WithName("install")

		debugger, err := newDebugger(log, opts)
		if err != nil {
			return err
		}

		if *list {
			versions, listErr := debugger.InstalledVersions()
			if listErr != nil {
				return listErr
			}
			if versions == nil {
				versions = []string{}
			}
			return writeJSON(cmd, versions)
		}

		version, installErr := debugger.EnsureInstalled(cmd.Context())
		if installErr != nil {
			log.Error(installErr, "Debug adapter is not available")
			return installErr
		}

		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	}
}
