package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnova/internal/identity"
)

const maxPageSize = 100

// RegisterRoutes mounts GET /api/activity, which lists the signed-in
// user's own entries.
func RegisterRoutes(r chi.Router, store *Store, ids identity.Service) {
	r.With(identity.RequireUser(ids)).Get("/api/activity", handleActivity(store))
}

func handleActivity(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := identity.UserFrom(r.Context())
		q := r.URL.Query()

		filter := QueryFilter{
			UID:    user.UID,
			Action: q.Get("action"),
			Limit:  20,
		}
		if v := q.Get("since"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "since must be an RFC 3339 time"})
				return
			}
			filter.Since = &t
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				filter.Limit = min(n, maxPageSize)
			}
		}
		if v := q.Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				filter.Offset = n
			}
		}

		entries, err := store.Query(r.Context(), filter)
		if err != nil {
			store.logger.Error("querying activity", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load activity"})
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
