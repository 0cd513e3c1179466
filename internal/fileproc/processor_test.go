// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fileproc

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat/docchat-tui/internal/api"
)

type fakeBackend struct {
	uploadReq  *api.UploadRequest
	uploadPath string
	uploadErr  error

	ctxFilePath string
	ctxQuery    string
	excerpt     string
	ctxErr      error
}

func (b *fakeBackend) UploadFile(_ context.Context, req api.UploadRequest) (string, error) {
	b.uploadReq = &req
	return b.uploadPath, b.uploadErr
}

func (b *fakeBackend) GenerateContext(_ context.Context, filePath, queryText string) (string, error) {
	b.ctxFilePath = filePath
	b.ctxQuery = queryText
	return b.excerpt, b.ctxErr
}

func writeTempPDF(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestProcessHappyPath(t *testing.T) {
	content := []byte("%PDF-1.4 fake body")
	path := writeTempPDF(t, "report.pdf", content)
	backend := &fakeBackend{
		uploadPath: "/uploads/report.pdf",
		excerpt:    "Quarterly revenue grew 12%.",
	}

	result, err := New(backend).Process(context.Background(), path, "What changed?")
	require.NoError(t, err)

	assert.Equal(t, "Quarterly revenue grew 12%.", result.Excerpt)
	assert.Equal(t, "report.pdf", result.Label)

	require.NotNil(t, backend.uploadReq)
	assert.Equal(t, "report.pdf", backend.uploadReq.FileName)
	assert.Equal(t, "application/pdf", backend.uploadReq.FileType)
	assert.Equal(t, int64(len(content)), backend.uploadReq.FileSize)
	decoded, err := base64.StdEncoding.DecodeString(backend.uploadReq.FileContent)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)

	assert.Equal(t, "/uploads/report.pdf", backend.ctxFilePath)
	assert.Equal(t, "What changed?", backend.ctxQuery)
}

func TestProcessRejectsNonPDFBeforeUpload(t *testing.T) {
	path := writeTempPDF(t, "notes.txt", []byte("plain text"))
	backend := &fakeBackend{}

	_, err := New(backend).Process(context.Background(), path, "")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Nil(t, backend.uploadReq)
}

func TestProcessAcceptsUppercaseExtension(t *testing.T) {
	path := writeTempPDF(t, "SCAN.PDF", []byte("%PDF-1.4"))
	backend := &fakeBackend{uploadPath: "/u/scan", excerpt: "text"}

	result, err := New(backend).Process(context.Background(), path, "q")
	require.NoError(t, err)
	assert.Equal(t, "SCAN.PDF", result.Label)
}

func TestProcessMissingFile(t *testing.T) {
	backend := &fakeBackend{}

	_, err := New(backend).Process(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"), "")
	assert.Error(t, err)
	assert.Nil(t, backend.uploadReq)
}

func TestProcessUploadFailure(t *testing.T) {
	path := writeTempPDF(t, "report.pdf", []byte("%PDF-1.4"))
	backend := &fakeBackend{uploadErr: errors.New("backend down")}

	_, err := New(backend).Process(context.Background(), path, "q")
	assert.ErrorContains(t, err, "upload failed")
	assert.Equal(t, "", backend.ctxQuery)
}

func TestProcessExtractionFailure(t *testing.T) {
	path := writeTempPDF(t, "report.pdf", []byte("%PDF-1.4"))
	backend := &fakeBackend{uploadPath: "/u/r", ctxErr: errors.New("no context")}

	_, err := New(backend).Process(context.Background(), path, "q")
	assert.ErrorContains(t, err, "context extraction failed")
}

func TestQueryFor(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		pending  string
		want     string
	}{
		{"pending prompt wins", "report.pdf", "What is the total?", "What is the total?"},
		{"whitespace pending falls back", "report.pdf", "   ", "Extract and summarize key information from report.pdf"},
		{"empty pending falls back", "scan.pdf", "", "Extract and summarize key information from scan.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryFor(tt.fileName, tt.pending))
		})
	}
}
