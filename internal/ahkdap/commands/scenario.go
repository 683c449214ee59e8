/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/ahkdap/internal/dap"
	"github.com/microsoft/ahkdap/pkg/logger"
	"github.com/microsoft/ahkdap/pkg/pointers"
)

type scenarioOptions struct {
	adapterName string
	label       string
	program     string
	cwd         string
	args        []string
	stopOnEntry bool
	attach      bool
	processID   int
}

const (
	stopOnEntryFlag = "stop-on-entry"
	processIDFlag   = "pid"
)

func NewScenarioCommand(log *logger.Logger, opts *rootOptions) *cobra.Command {
	sopts := &scenarioOptions{}

	scenarioCmd := &cobra.Command{
		Use:   "scenario",
		Short: "Converts a debug request into a debug scenario",
		Long: `Converts a launch request (program, working directory, arguments) into a debug scenario
	with the configuration document the AutoHotkey debug adapter expects. Attach requests are rejected.`,
		RunE: runScenario(log, opts, sopts),
		Args: cobra.NoArgs,
	}

	flags := scenarioCmd.Flags()
	flags.StringVar(&sopts.adapterName, adapterFlag, "", "Name of the debug adapter (must be 'autohotkey')")
	flags.StringVar(&sopts.label, "label", "", "Label of the debug scenario")
	flags.StringVar(&sopts.program, "program", "", "Script to debug")
	flags.StringVar(&sopts.cwd, "cwd", "", "Working directory of the script")
	flags.StringArrayVar(&sopts.args, "arg", nil, "Argument for the script. Can be repeated")
	flags.BoolVar(&sopts.stopOnEntry, stopOnEntryFlag, false, "Pause at the first line of the script")
	flags.BoolVar(&sopts.attach, "attach", false, "Attach to a running process instead of launching the script")
	flags.IntVar(&sopts.processID, processIDFlag, 0, "Process to attach to (with --attach)")
	_ = scenarioCmd.MarkFlagRequired(adapterFlag)
	scenarioCmd.MarkFlagsMutuallyExclusive("attach", "program")
	scenarioCmd.MarkFlagsMutuallyExclusive("attach", "arg")

	return scenarioCmd
}

func runScenario(log *logger.Logger, opts *rootOptions, sopts *scenarioOptions) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		debugger, err := newDebugger(log.Logger, opts)
		if err != nil {
			return err
		}

		config := dap.DebugConfig{
			Label:   sopts.label,
			Adapter: sopts.adapterName,
		}
		if cmd.Flags().Changed(stopOnEntryFlag) {
			config.StopOnEntry = pointers.Pointer(sopts.stopOnEntry)
		}

		if sopts.attach {
			req := &dap.AttachRequest{}
			if cmd.Flags().Changed(processIDFlag) {
				req.ProcessID = pointers.Pointer(sopts.processID)
			}
			config.Request = req
		} else {
			config.Request = &dap.LaunchRequest{
				Program: sopts.program,
				Cwd:     pointers.NonZero(sopts.cwd),
				Args:    sopts.args,
			}
		}

		scenario, scenarioErr := debugger.ConfigToScenario(config)
		if scenarioErr != nil {
			return scenarioErr
		}

		return writeJSON(cmd, scenario)
	}
}
