package assistant

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/learnova/internal/llm/llmtest"
)

func newTestRouter(t *testing.T, mock *llmtest.MockProvider) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, newTestService(t, mock, Options{}))
	return r
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, &buf))
	return w
}

func TestHandleExplain(t *testing.T) {
	h := newTestRouter(t, llmtest.NewMockProvider("mock"))

	w := post(t, h, "/api/explain", map[string]string{"question": "What is a cell?", "subject": "biology", "level": "CLASS_10"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "mock response", got["answer"])
	assert.Contains(t, got["html"], "mock response")
	assert.NotNil(t, got["usage"])
}

func TestHandleExplainErrors(t *testing.T) {
	h := newTestRouter(t, llmtest.NewMockProvider("mock"))

	w := post(t, h, "/api/explain", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Please enter a question or upload an image.","kind":"validation"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/explain", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	failing := llmtest.NewMockProvider("mock")
	failing.Err = assert.AnError
	w = post(t, newTestRouter(t, failing), "/api/explain", map[string]string{"question": "q"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to get answer from AI.")
}

func TestHandleRender(t *testing.T) {
	h := newTestRouter(t, llmtest.NewMockProvider("mock"))

	w := post(t, h, "/api/render", map[string]string{"markdown": "# Title"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Title</h1>")

	w = post(t, h, "/api/render", map[string]string{"markdown": "x", "engine": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleExportPDF(t *testing.T) {
	h := newTestRouter(t, llmtest.NewMockProvider("mock"))

	w := post(t, h, "/api/export/pdf", map[string]string{"question": "q", "markdown": "**Answer**"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = post(t, h, "/api/export/pdf", map[string]string{"markdown": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No answer to export.")
}
