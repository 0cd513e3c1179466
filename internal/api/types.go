// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// =============================================================================
// REQUEST TYPES
// =============================================================================

// GenerateRequest is the body of POST /model/generate.
type GenerateRequest struct {
	ModelName string `json:"model_name"`
	Prompt    string `json:"prompt"`
	Context   string `json:"context"`
}

// UploadRequest is the body of POST /file/upload. FileContent carries the
// raw file bytes base64-encoded.
type UploadRequest struct {
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	FileContent string `json:"file_content"`
}

// ContextRequest is the body of POST /rag/process-and-get-context.
type ContextRequest struct {
	FilePath  string `json:"file_path"`
	QueryText string `json:"query_text"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Envelope is the common wrapper around every backend response.
type Envelope[T any] struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Result      *T     `json:"result"`
}

// GenerateResult carries the model completion.
type GenerateResult struct {
	Completion string `json:"completion"`
}

// UploadResult carries the server-side path of an uploaded file.
type UploadResult struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
}

// ContextResult carries the extracted document context.
type ContextResult struct {
	GeneratedContext string `json:"generated_context"`
}
