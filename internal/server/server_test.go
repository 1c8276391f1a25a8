package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0}, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCatalog(t *testing.T) {
	srv := New(Config{}, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/catalog", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body catalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Levels, 4)
	assert.Equal(t, "GENERAL", string(body.Levels[0].Value))
	assert.Equal(t, "general", body.Subjects[0].ID)
	assert.Equal(t, []string{"legacy", "commonmark"}, body.Engines)
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowedOrigins: []string{"*"}}, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	srv := New(Config{AllowedOrigins: []string{"https://learn.example.com"}}, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := New(Config{}, zap.New(core))
	srv.Router().Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", nil))
	srv.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/boom", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/healthz", entries[0].ContextMap()["path"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestRecovererReturns500(t *testing.T) {
	srv := New(Config{}, nil)
	srv.Router().Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTimeoutSkipsWebSocketUpgrades(t *testing.T) {
	srv := New(Config{RequestTimeout: time.Millisecond}, nil)
	var hasDeadline []bool
	srv.Router().Get("/deadline", func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Deadline()
		hasDeadline = append(hasDeadline, ok)
	})

	srv.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/deadline", nil))

	upgrade := httptest.NewRequest("GET", "/deadline", nil)
	upgrade.Header.Set("Connection", "Upgrade")
	upgrade.Header.Set("Upgrade", "websocket")
	srv.Router().ServeHTTP(httptest.NewRecorder(), upgrade)

	assert.Equal(t, []bool{true, false}, hasDeadline)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := New(Config{Port: 0, ShutdownTimeout: time.Second}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
