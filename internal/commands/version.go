/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/microsoft/ahkdap/internal/version"
)

const (
	//  If set, the value of this variable will be written to the log as one of the first log messages.
	AHKDAP_LOGGING_CONTEXT = "AHKDAP_LOGGING_CONTEXT"
)

// NewVersionCommand creates the "version" command.
// If adapterVersion is not nil, the installed adapter version it reports is included in the output.
func NewVersionCommand(log logr.Logger, adapterVersion func() (string, bool)) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints version information",
		Long:  `Prints version information.`,
		RunE:  getVersion(log, adapterVersion),
		Args:  cobra.NoArgs,
	}

	return versionCmd
}

func getVersion(log logr.Logger, adapterVersion func() (string, bool)) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log = log.WithName("version")

		output := version.Version()
		if adapterVersion != nil {
			if v, found := adapterVersion(); found {
				output.AdapterVersion = v
			}
		}

		versionStr, err := json.Marshal(output)
		if err != nil {
			log.Error(err, "Could not serialize version information")
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(versionStr))
		return nil
	}
}

func LogVersion(log logr.Logger, programStartMsg string) func(_ *cobra.Command, _ []string) {
	return func(_ *cobra.Command, _ []string) {
		versionString, err := json.Marshal(version.Version())
		if err != nil {
			versionString = []byte(fmt.Sprintf("unknown: %v", err))
		}

		launchPath, pathErr := os.Executable()
		if pathErr != nil {
			launchPath = os.Args[0]
		}

		log.V(1).Info(programStartMsg,
			"PID", os.Getpid(),
			"Exe", launchPath,
			"Args", os.Args[1:],
			"Version", string(versionString),
		)

		logContext, found := os.LookupEnv(AHKDAP_LOGGING_CONTEXT)
		if found && len(logContext) > 0 {
			log.V(1).Info(logContext)
		}
	}
}
