// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the docchat backend.
//
// The backend contract is fixed: three JSON-over-POST endpoints for model
// completion, file upload, and document-context extraction, all wrapped in a
// common response envelope. This package owns the wire types and maps
// transport failures onto typed errors; it knows nothing about sessions or
// the UI.
package api
