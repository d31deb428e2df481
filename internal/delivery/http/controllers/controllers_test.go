package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"axleague/internal/delivery/http/middleware"
)

// testLogger is a no-op logger for controller tests so we don't assert on
// log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// newAuthedRequest builds a request with a JSON body, an authenticated user
// in the context, and the given path values.
func newAuthedRequest(t *testing.T, method, target, userID string, body any, pathValues map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if userID != "" {
		req = req.WithContext(middleware.SetIdentity(context.Background(), userID, "USER"))
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

// decodeEnvelope decodes the standard response envelope with data decoded
// into dest (may be nil to skip).
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return &env
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
