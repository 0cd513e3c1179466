// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fileproc turns a local PDF into a staged document excerpt:
// validate, base64-encode, upload, then ask the backend to extract the
// context relevant to the user's question.
package fileproc
