// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the dva command tree.
//
// Running dva with no subcommand starts the full-screen chat widget. The
// subcommands reuse the same widget state machine without the TUI:
//
//	dva                    chat widget (bubbletea)
//	dva ask QUESTION...    one exchange, reply on stdout
//	dva chat               line-oriented chat
//	dva models             list the selectable models
//	dva config ...         inspect or edit ~/.dva/config.toml
//	dva version            print build information
//
// Every command loads .env, then the config file, then DVA_* environment
// overrides, then command-line flags, in that order.
package cli
