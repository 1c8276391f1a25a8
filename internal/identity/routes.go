package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ctxKey struct{}

// UserFrom returns the user attached by RequireUser.
func UserFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	return u, ok
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := svc.Authenticate(r.Context(), BearerToken(r))
			if err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
		})
	}
}

// RegisterRoutes mounts auth endpoints under /api/auth and settings under
// /api/settings.
func RegisterRoutes(r chi.Router, store *Store, logger *zap.Logger) {
	h := &handlers{store: store, logger: logger.Named("identity")}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.handleSignUp)
		r.Post("/login", h.handleLogin)
		r.Post("/token", h.handleCustomToken)
		r.Get("/google/url", h.handleGoogleURL)
		r.Post("/google", h.handleGoogle)
		r.Post("/logout", h.handleLogout)
		r.With(RequireUser(store)).Get("/me", h.handleMe)
	})

	r.Route("/api/settings", func(r chi.Router) {
		r.Use(RequireUser(store))
		r.Get("/", h.handleGetSettings)
		r.Put("/", h.handlePutSettings)
		r.Post("/reset", h.handleResetAllowance)
	})
}

type handlers struct {
	store  *Store
	logger *zap.Logger
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
	Code     string `json:"code"`
}

type signInResponse struct {
	User     *User    `json:"user"`
	Token    *Token   `json:"token"`
	Settings Settings `json:"settings"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return c, false
	}
	return c, true
}

func (h *handlers) respondSignIn(w http.ResponseWriter, r *http.Request, u *User, tok *Token, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	settings, err := h.store.LoadSettings(r.Context(), u.UID)
	if err != nil {
		h.logger.Error("loading settings", zap.String("uid", u.UID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load user settings."})
		return
	}
	writeJSON(w, http.StatusOK, signInResponse{User: u, Token: tok, Settings: settings})
}

func (h *handlers) handleSignUp(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	u, tok, err := h.store.SignUp(r.Context(), c.Email, c.Password)
	h.respondSignIn(w, r, u, tok, err)
}

func (h *handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	u, tok, err := h.store.SignInWithPassword(r.Context(), c.Email, c.Password)
	h.respondSignIn(w, r, u, tok, err)
}

func (h *handlers) handleCustomToken(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	u, tok, err := h.store.SignInWithCustomToken(r.Context(), c.Token)
	h.respondSignIn(w, r, u, tok, err)
}

func (h *handlers) handleGoogleURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.store.GoogleAuthURL(r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *handlers) handleGoogle(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	u, tok, err := h.store.SignInWithGoogle(r.Context(), c.Code)
	h.respondSignIn(w, r, u, tok, err)
}

func (h *handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SignOut(r.Context(), BearerToken(r)); err != nil {
		h.logger.Error("sign out", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sign out failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	writeJSON(w, http.StatusOK, u)
}

func (h *handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	s, err := h.store.LoadSettings(r.Context(), u.UID)
	if err != nil {
		h.logger.Error("loading settings", zap.String("uid", u.UID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load user settings."})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handlers) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	var patch SettingsPatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.store.SaveSettings(r.Context(), u.UID, patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.handleGetSettings(w, r)
}

func (h *handlers) handleResetAllowance(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	s, err := h.store.ResetAllowance(r.Context(), u.UID)
	if err != nil {
		h.logger.Error("reset allowance", zap.String("uid", u.UID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save user settings."})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// StatusFor maps identity errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrWeakPassword), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrGoogleNotConfigured):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
