package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/suar-net/starter-be/internal/jsonutil"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func newRequest(method, target, accept string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	if accept != "" {
		r.Header.Set("Accept", accept)
	}
	return r
}

func newJSONRequest(method, target, body string) *http.Request {
	r := newRequest(method, target, ContentTypeJSON, strings.NewReader(body))
	r.Header.Set("Content-Type", ContentTypeJSON)
	return r
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, jsonutil.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func firstError(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	errs, ok := body["errors"].([]any)
	require.True(t, ok, "errors missing from %v", body)
	require.NotEmpty(t, errs)
	first, ok := errs[0].(map[string]any)
	require.True(t, ok)
	return first
}
