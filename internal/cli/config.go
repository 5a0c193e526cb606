// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/dva-tui/internal/config"
)

func newConfigCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long: `View and modify the dva configuration file.

Keys use dot notation, for example chat.default_model or ui.theme.
"show" and "get" report the effective value after DVA_* environment
overrides; "set" edits only the file.`,
		Example: `  dva config show
  dva config get chat.default_model
  dva config set ui.theme dark
  dva config set backend.timeout_secs 30
  dva config path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as TOML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := g.loadConfig()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), cfg.String())
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := g.filePath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List the configuration keys",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, k := range config.Keys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one effective configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := g.loadConfig()
				if err != nil {
					return err
				}
				v, err := cfg.Get(args[0])
				if err != nil {
					return usageError("%v", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Persist one configuration value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := g.filePath()
				if err != nil {
					return err
				}
				if err := setConfigValue(path, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			},
		},
		newConfigInitCommand(g),
	)
	return cmd
}

func newConfigInitCommand(g *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.filePath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return usageError("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveFile(config.Default(), path); err != nil {
				return configError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote "+path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// filePath returns --config or the default TOML location.
func (g *globalFlags) filePath() (string, error) {
	if g.configPath != "" {
		return g.configPath, nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", configError(err)
	}
	return path, nil
}

// setConfigValue edits key in the file at path without baking environment
// overrides or derived defaults into it. A missing file starts from the
// defaults. JSON files stay JSON.
func setConfigValue(path, key, value string) error {
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.DecodeFile(cfg, path); err != nil {
			return configError(err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return configError(err)
	}

	if err := cfg.Set(key, value); err != nil {
		return usageError("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return usageError("%v", err)
	}
	if err := config.SaveFile(cfg, path); err != nil {
		return configError(err)
	}
	return nil
}
