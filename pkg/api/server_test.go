package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalforge/evalforge/pkg/eval"
	"github.com/evalforge/evalforge/pkg/provider"
)

func echoFactory(cfg eval.ProviderConfig) (provider.Provider, error) {
	return provider.NewEchoStub(cfg.ID), nil
}

func writeTestSuite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	content := `
providers:
  - id: p1
    type: stub
prompts:
  - id: greet
    raw: "hello"
tests:
  - assert:
      - "contains:hello"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(echoFactory, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestStartRunAndPoll(t *testing.T) {
	s := NewServer(echoFactory, nil)
	suitePath := writeTestSuite(t)

	body, err := json.Marshal(map[string]string{"suitePath": suitePath})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var started map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	runID := started["id"]
	require.NotEmpty(t, runID)

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/runs/"+runID, nil)
		s.Handler().ServeHTTP(rec, req)
		var got map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		return got["status"] == string(RunStatusCompleted)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetUnknownRunReturnsNotFound(t *testing.T) {
	s := NewServer(echoFactory, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runs/does-not-exist", nil)
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartRunRejectsMissingSuitePath(t *testing.T) {
	s := NewServer(echoFactory, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
