// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fileproc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docchat/docchat-tui/internal/api"
)

// =============================================================================
// VALIDATION
// =============================================================================

// UnsupportedNotice is the user-facing rejection for non-PDF files.
const UnsupportedNotice = "Only PDF files are supported"

// MaxFileSize caps uploads at 20 MB.
const MaxFileSize = 20 << 20

const pdfMIMEType = "application/pdf"

var (
	// ErrUnsupportedType is returned for anything that is not a PDF. The
	// check happens before any network call.
	ErrUnsupportedType = errors.New("only PDF files are supported")

	// ErrFileTooLarge is returned when the file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds the maximum upload size")
)

// =============================================================================
// PROCESSOR
// =============================================================================

// Backend is the upload/extraction surface the processor needs.
// *api.Client satisfies it.
type Backend interface {
	UploadFile(ctx context.Context, req api.UploadRequest) (string, error)
	GenerateContext(ctx context.Context, filePath, queryText string) (string, error)
}

// Result is a staged-context candidate: the extracted excerpt and the
// label shown for the source document.
type Result struct {
	Excerpt string
	Label   string
}

// Processor runs the full upload-and-extract pipeline for one document.
type Processor struct {
	backend Backend
}

// New creates a processor bound to a backend client.
func New(backend Backend) *Processor {
	return &Processor{backend: backend}
}

// Process validates the file at path, uploads it, and asks the backend
// for the context relevant to query. An empty query falls back to a
// summary request derived from the file name.
func (p *Processor) Process(ctx context.Context, path, query string) (*Result, error) {
	name := filepath.Base(path)

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedType)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%s: %w", name, ErrFileTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}

	filePath, err := p.backend.UploadFile(ctx, api.UploadRequest{
		FileName:    name,
		FileType:    pdfMIMEType,
		FileSize:    info.Size(),
		FileContent: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	excerpt, err := p.backend.GenerateContext(ctx, filePath, QueryFor(name, query))
	if err != nil {
		return nil, fmt.Errorf("context extraction failed: %w", err)
	}

	return &Result{Excerpt: excerpt, Label: name}, nil
}

// QueryFor picks the extraction query: the user's pending prompt when
// there is one, otherwise a summary request naming the document.
func QueryFor(fileName, pending string) string {
	if trimmed := strings.TrimSpace(pending); trimmed != "" {
		return trimmed
	}
	return "Extract and summarize key information from " + fileName
}
