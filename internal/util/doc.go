// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the UI and CLI.
//
//   - Display-width aware truncation and padding (go-runewidth)
//   - Crash-safe file writes for saved attachments and config files
package util
