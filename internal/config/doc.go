// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for docchat.
//
// Configuration comes from, in order of precedence:
//   - DOCCHAT_* environment variables
//   - ~/.docchat/config.toml
//   - Built-in defaults
//
// A missing config file is not an error; a malformed one falls back to the
// defaults so a bad edit never prevents the application from starting.
package config
