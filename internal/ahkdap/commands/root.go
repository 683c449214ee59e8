/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/microsoft/ahkdap/internal/adapter"
	cmds "github.com/microsoft/ahkdap/internal/commands"
	"github.com/microsoft/ahkdap/internal/config"
	"github.com/microsoft/ahkdap/pkg/logger"
)

const adapterFlag = "adapter"

// Settings shared by all subcommands. Flags take precedence over environment variables.
type rootOptions struct {
	adapterRoot   string
	releaseAPIURL string
	envFiles      []string
}

func NewRootCommand(log *logger.Logger) (*cobra.Command, error) {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ahkdap",
		Short: "Installs and launches the AutoHotkey debug adapter",
		Long: `ahkdap installs the AutoHotkey debug adapter and tells debugger hosts how to launch it.

	The adapter is downloaded from its GitHub releases on first use. If the release information
	cannot be retrieved, the newest previously installed version is used.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// An unsupported adapter is rejected before any file, environment or network access.
			if err := validateAdapterFlag(cmd); err != nil {
				return err
			}

			cmds.LogVersion(log.Logger, "Starting ahkdap...")(cmd, args)
			return config.LoadEnvFiles(opts.envFiles...)
		},
	}

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&opts.adapterRoot, "adapter-root", "", "Directory where adapter versions are installed. Overrides the AHKDAP_ADAPTER_ROOT environment variable. Defaults to ./autohotkey")
	pflags.StringVar(&opts.releaseAPIURL, "release-api-url", "", "Base URL of the GitHub API used to look up adapter releases. Overrides the AHKDAP_RELEASE_API_URL environment variable")
	pflags.StringSliceVar(&opts.envFiles, "env-file", nil, "Environment file(s) to load settings from. Defaults to .env in the current directory, if present")
	log.AddLevelFlag(pflags)

	rootCmd.AddCommand(NewInstallCommand(log, opts))
	rootCmd.AddCommand(NewBinaryCommand(log, opts))
	rootCmd.AddCommand(NewRequestKindCommand(log, opts))
	rootCmd.AddCommand(NewScenarioCommand(log, opts))
	rootCmd.AddCommand(cmds.NewVersionCommand(log.Logger, func() (string, bool) {
		return installedAdapterVersion(log.Logger, opts)
	}))

	return rootCmd, nil
}

// Checks the --adapter flag of commands that have one.
// A flag that was not set is left to cobra's required flag validation.
func validateAdapterFlag(cmd *cobra.Command) error {
	flag := cmd.Flags().Lookup(adapterFlag)
	if flag == nil || !flag.Changed {
		return nil
	}
	return adapter.AutoHotkey.ValidateName(flag.Value.String())
}

func (opts *rootOptions) settings() (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	if opts.adapterRoot != "" {
		if rootErr := settings.SetAdapterRoot(opts.adapterRoot); rootErr != nil {
			return nil, rootErr
		}
	}
	if opts.releaseAPIURL != "" {
		settings.ReleaseAPIURL = opts.releaseAPIURL
	}

	return settings, nil
}

func newDebugger(log logr.Logger, opts *rootOptions) (*adapter.Debugger, error) {
	settings, err := opts.settings()
	if err != nil {
		return nil, err
	}
	return adapter.NewDebugger(&adapter.AutoHotkey, settings, log.WithName("debugger"))
}

// Reports the newest installed adapter version without touching the network.
func installedAdapterVersion(log logr.Logger, opts *rootOptions) (string, bool) {
	debugger, err := newDebugger(log, opts)
	if err != nil {
		return "", false
	}

	versions, listErr := debugger.InstalledVersions()
	if listErr != nil || len(versions) == 0 {
		return "", false
	}
	return versions[len(versions)-1], true
}
