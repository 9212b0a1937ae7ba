package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitops/cvm-planner/backend/internal/handler"
	"github.com/visitops/cvm-planner/backend/internal/importer"
)

// ---- mock ImportServicer -------------------------------------------------------

type mockImportServicer struct {
	imp func(ctx context.Context, content []byte, filename string, opts importer.Options) (*importer.Summary, error)
}

func (m *mockImportServicer) Import(ctx context.Context, content []byte, filename string, opts importer.Options) (*importer.Summary, error) {
	return m.imp(ctx, content, filename, opts)
}

var _ handler.ImportServicer = (*mockImportServicer)(nil)

// multipartUpload builds a multipart body with the workbook under "file" plus
// the given form fields.
func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

// ---- POST /api/import/workbook ---------------------------------------------------

func TestImportWorkbook_200(t *testing.T) {
	var gotFilename string
	var gotOpts importer.Options
	var gotContent []byte

	svc := &mockImportServicer{
		imp: func(_ context.Context, content []byte, filename string, opts importer.Options) (*importer.Summary, error) {
			gotContent = content
			gotFilename = filename
			gotOpts = opts
			return &importer.Summary{
				Filename:     filename,
				CalendarYear: 2025,
				CanApply:     true,
			}, nil
		},
	}

	body, contentType := multipartUpload(t, "planner.xlsx", []byte("workbook-bytes"), map[string]string{
		"upsert_policy":    "create_only",
		"validation_mode":  "strict",
		"duplicate_policy": "first_wins",
		"dry_run":          "true",
		"year":             "2026",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/import/workbook", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Importer: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "planner.xlsx", gotFilename)
	assert.Equal(t, []byte("workbook-bytes"), gotContent)
	assert.Equal(t, importer.Options{
		YearOverride:    2026,
		UpsertPolicy:    "create_only",
		ValidationMode:  "strict",
		DuplicatePolicy: "first_wins",
		DryRun:          true,
	}, gotOpts)

	var summary map[string]any
	decodeResponse(t, rec, &summary)
	assert.Equal(t, true, summary["can_apply"])
}

func TestImportWorkbook_422_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("dry_run", "true"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/workbook", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Importer: &mockImportServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestImportWorkbook_422_BadYearField(t *testing.T) {
	body, contentType := multipartUpload(t, "planner.xlsx", []byte("x"), map[string]string{
		"year": "next",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/import/workbook", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{Importer: &mockImportServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestImportWorkbook_413_TooLarge(t *testing.T) {
	body, contentType := multipartUpload(t, "planner.xlsx", bytes.Repeat([]byte("x"), 4096), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/workbook", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	deps := handler.Deps{Importer: &mockImportServicer{}, MaxUploadBytes: 1024}
	newTestHandler(deps).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
