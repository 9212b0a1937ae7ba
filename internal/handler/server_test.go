package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/visitops/cvm-planner/backend/internal/handler"
)

// newTestHandler wires a Server from the given deps. Slots a test does not
// exercise stay nil; touching one panics, which fails the test loudly.
func newTestHandler(deps handler.Deps) http.Handler {
	return handler.NewServer(deps).Routes()
}

// jsonBody marshals v for use as a request body.
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

// decodeResponse unmarshals the recorded response body into dst.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestGetHealth_200(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	newTestHandler(handler.Deps{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeResponse(t, rec, &body)
	require.Equal(t, "ok", body["status"])
}
