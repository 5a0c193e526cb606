// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for dva.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: completion service location and timeout
//   - ChatConfig: default model, greeting and assistant naming
//   - UIConfig: theme and widget behaviour
//   - LogConfig: log level, format and destination
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DVA_*, plus VITE_BACKEND_URL)
//   - A .env file in the working directory
//   - ~/.dva/config.toml (or the path given with --config)
//   - Built-in defaults
//
// # Usage
//
//	config.LoadDotEnv()
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Backend.BaseURL)
package config
