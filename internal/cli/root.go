// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeranaias/dva-tui/internal/backend"
	"github.com/jeranaias/dva-tui/internal/config"
	"github.com/jeranaias/dva-tui/internal/logging"
	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/ui/chat"
	"github.com/jeranaias/dva-tui/internal/widget"
)

// =============================================================================
// BUILD INFO
// =============================================================================

// BuildInfo is set from main with values injected by the linker.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	backendURL string
	modelID    string
	logLevel   string
}

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	client *backend.Client
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

// newWidget creates a widget from the resolved configuration.
func (a *app) newWidget() *widget.Widget {
	return widget.New(widget.Options{
		Greeting:      a.cfg.Chat.Greeting,
		AssistantName: a.cfg.Chat.AssistantName,
		Model:         a.cfg.Chat.DefaultModel,
		Logger:        a.logger.Component("widget"),
	})
}

// loadConfig resolves configuration in precedence order: .env, config
// file, DVA_* environment, flags.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(g.envFiles()...); err != nil {
		return nil, configError(err)
	}

	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFromPath(g.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, configError(err)
	}

	if g.backendURL != "" {
		cfg.Backend.BaseURL = g.backendURL
	}
	if g.modelID != "" {
		info, ok := model.Lookup(g.modelID)
		if !ok {
			return nil, usageError("unknown model %q%s", g.modelID, didYouMean(g.modelID))
		}
		cfg.Chat.DefaultModel = info.ID
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, configError(err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// setup loads configuration, opens the log and builds the client.
func (g *globalFlags) setup() (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		// Logging must never stop the chat.
		logger = logging.Discard()
	}

	client, err := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout()),
		backend.WithLogger(logger.Component("backend")),
	)
	if err != nil {
		_ = logger.Close()
		return nil, configError(err)
	}

	logger.WithFields(logrus.Fields{
		"backend": client.BaseURL(),
		"model":   cfg.Chat.DefaultModel,
	}).Info("dva starting")

	return &app{cfg: cfg, logger: logger, client: client}, nil
}

// didYouMean returns a hint naming the closest catalog model.
func didYouMean(id string) string {
	if m, ok := model.Suggest(id); ok {
		return fmt.Sprintf(" (did you mean %s?)", m.ID)
	}
	return " (see 'dva models')"
}

func (g *globalFlags) envFiles() []string {
	if g.envFile != "" {
		return []string{g.envFile}
	}
	return nil
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the full command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	g := &globalFlags{}
	var (
		open        bool
		attachments bool
		theme       string
		plain       bool
	)

	root := &cobra.Command{
		Use:   "dva",
		Short: "Duncan's Virtual Assistant, a terminal chat widget",
		Long: `dva is a chat widget for the terminal. It starts as a small launcher in
the bottom-right corner; press enter to open the conversation panel.

Replies come from a hosted completion backend (POST /api/chat). Pick the
model with ctrl+t inside the widget or --model on the command line.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.setup()
			if err != nil {
				return err
			}
			defer a.close()

			opts := chat.Options{
				Title:              a.cfg.Chat.Title,
				ThemeMode:          a.cfg.UI.Theme,
				AttachmentsEnabled: a.cfg.UI.AttachmentsEnabled,
				StartOpen:          a.cfg.UI.StartOpen,
				PlainText:          a.cfg.UI.PlainText,
				Logger:             a.logger.Component("tui"),
			}
			if cmd.Flags().Changed("open") {
				opts.StartOpen = open
			}
			if cmd.Flags().Changed("attachments") {
				opts.AttachmentsEnabled = attachments
			}
			if theme != "" {
				opts.ThemeMode = theme
			}
			if cmd.Flags().Changed("plain") {
				opts.PlainText = plain
			}
			return runTUI(cmd.Context(), a, opts)
		},
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsageError, Err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "config file (default ~/.dva/config.toml)")
	pf.StringVar(&g.envFile, "env-file", "", "dotenv file to load (default .env)")
	pf.StringVar(&g.backendURL, "backend", "", "completion backend base URL")
	pf.StringVarP(&g.modelID, "model", "m", "", "model ID (see 'dva models')")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	f := root.Flags()
	f.BoolVar(&open, "open", false, "start with the chat panel open")
	f.BoolVar(&attachments, "attachments", false, "enable the attach action (ctrl+a)")
	f.StringVar(&theme, "theme", "", "color theme: auto, dark or light")
	f.BoolVar(&plain, "plain", false, "show replies as plain text instead of markdown")

	root.AddCommand(
		newAskCommand(g),
		newChatCommand(g),
		newModelsCommand(g),
		newConfigCommand(g),
		newVersionCommand(info),
	)
	return root
}

// runTUI runs the bubbletea program until the user quits.
func runTUI(ctx context.Context, a *app, opts chat.Options) error {
	m := chat.New(a.newWidget(), a.client, opts)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		a.logger.WithError(err).Error("program exited with error")
		return fmt.Errorf("error running program: %w", err)
	}
	a.logger.Info("dva exited")
	return nil
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Execute runs the command tree with os.Args and returns the exit status.
func Execute(ctx context.Context, info BuildInfo) int {
	return run(ctx, NewRootCommand(info), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && !isSilent(err) {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+err.Error())
	}
	return ExitCode(err)
}
