package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/learnova/internal/db"
	"github.com/ziadkadry99/learnova/internal/identity"
)

func setupStore(t *testing.T) (*Store, *db.DB) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database, nil), database
}

func TestLogAndQuery(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	entries := []Entry{
		{ID: "e1", Timestamp: base, UID: "alice", Action: identity.EventSignedUp, Method: identity.MethodPassword},
		{ID: "e2", Timestamp: base.Add(time.Minute), UID: "alice", Action: identity.EventSignedIn, Method: identity.MethodPassword},
		{ID: "e3", Timestamp: base.Add(2 * time.Minute), UID: "bob", Action: identity.EventSignedIn, Method: identity.MethodGoogle},
		{ID: "e4", Timestamp: base.Add(3 * time.Minute), UID: "alice", Action: identity.EventSettingsChanged, Detail: "freeUsesRemaining"},
	}
	for _, e := range entries {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	got, err := store.Query(ctx, QueryFilter{UID: "alice"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].ID != "e4" || got[2].ID != "e1" {
		t.Errorf("order = %s,%s,%s, want newest first", got[0].ID, got[1].ID, got[2].ID)
	}
	if !got[0].Timestamp.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("Timestamp = %v", got[0].Timestamp)
	}
	if got[0].Detail != "freeUsesRemaining" {
		t.Errorf("Detail = %q", got[0].Detail)
	}

	got, _ = store.Query(ctx, QueryFilter{Action: identity.EventSignedIn})
	if len(got) != 2 {
		t.Errorf("action filter: got %d entries, want 2", len(got))
	}

	since := base.Add(90 * time.Second)
	got, _ = store.Query(ctx, QueryFilter{Since: &since})
	if len(got) != 2 {
		t.Errorf("since filter: got %d entries, want 2", len(got))
	}

	got, _ = store.Query(ctx, QueryFilter{UID: "alice", Limit: 1, Offset: 1})
	if len(got) != 1 || got[0].ID != "e2" {
		t.Errorf("pagination: got %+v", got)
	}
}

func TestLogGeneratesIDAndTimestamp(t *testing.T) {
	store, _ := setupStore(t)
	fixed := time.Date(2026, 5, 5, 12, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	if err := store.Log(context.Background(), Entry{UID: "carol", Action: identity.EventSignedOut}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	got, err := store.Query(context.Background(), QueryFilter{UID: "carol"})
	if err != nil || len(got) != 1 {
		t.Fatalf("Query: %v, %d entries", err, len(got))
	}
	if got[0].ID == "" {
		t.Error("expected generated ID")
	}
	if !got[0].Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", got[0].Timestamp, fixed)
	}
}

func TestDeleteBefore(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	old := time.Now().Add(-100 * 24 * time.Hour)

	store.Log(ctx, Entry{UID: "dave", Action: identity.EventSignedIn, Timestamp: old})
	store.Log(ctx, Entry{UID: "dave", Action: identity.EventSignedIn})

	n, err := store.DeleteBefore(ctx, time.Now().Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
}

func TestRecordFromIdentity(t *testing.T) {
	store, database := setupStore(t)
	ids, err := identity.NewStore(database, identity.Options{Recorder: store})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	u, tok, err := ids.SignUp(ctx, "erin@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if err := ids.SignOut(ctx, tok.Value); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	got, err := store.Query(ctx, QueryFilter{UID: u.UID})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	var actions []string
	for _, e := range got {
		actions = append(actions, e.Action)
	}
	want := []string{identity.EventSignedOut, identity.EventSignedIn, identity.EventSignedUp}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("actions = %v, want %v", actions, want)
			break
		}
	}
}

func TestActivityEndpoint(t *testing.T) {
	store, database := setupStore(t)
	ids, err := identity.NewStore(database, identity.Options{Recorder: store})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, store, ids)

	_, tok, err := ids.SignUp(context.Background(), "frank@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	store.Log(context.Background(), Entry{UID: "someone-else", Action: identity.EventSignedIn})

	req := httptest.NewRequest(http.MethodGet, "/api/activity", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity?limit=500", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var entries []Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want only the caller's 2", len(entries))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity?since=yesterday", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad since: status %d, want 400", w.Code)
	}
}
