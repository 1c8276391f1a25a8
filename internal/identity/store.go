package identity

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ziadkadry99/learnova/internal/db"
)

// Options configures a Store.
type Options struct {
	AppID         string
	FreeUsesLimit int
	// Secret signs custom tokens. A random secret is generated when empty.
	Secret     []byte
	SessionTTL time.Duration
	// Google is nil when federated sign-in is not configured.
	Google GoogleVerifier
	// Recorder, when set, receives account events.
	Recorder Recorder
	Logger   *zap.Logger
}

// Store is the SQLite-backed Service.
type Store struct {
	db     *db.DB
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

var _ Service = (*Store)(nil)

// NewStore creates an identity store backed by d.
func NewStore(d *db.DB, opts Options) (*Store, error) {
	if opts.AppID == "" {
		opts.AppID = "default-app-id"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	if len(opts.Secret) == 0 {
		opts.Secret = make([]byte, 32)
		if _, err := rand.Read(opts.Secret); err != nil {
			return nil, fmt.Errorf("generating token secret: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: d, opts: opts, logger: logger.Named("identity"), now: time.Now}, nil
}

// GoogleEnabled reports whether federated sign-in is available.
func (s *Store) GoogleEnabled() bool {
	return s.opts.Google != nil
}

// GoogleAuthURL returns the consent screen URL.
func (s *Store) GoogleAuthURL(state string) (string, error) {
	if s.opts.Google == nil {
		return "", ErrGoogleNotConfigured
	}
	return s.opts.Google.AuthCodeURL(state), nil
}

// IssueCustomToken mints a token that SignInWithCustomToken accepts for uid
// until ttl elapses.
func (s *Store) IssueCustomToken(uid string, ttl time.Duration) string {
	return signCustom(s.opts.Secret, uid, s.now().Add(ttl))
}

// SettingsPath is the location of uid's settings document.
func (s *Store) SettingsPath(uid string) string {
	return fmt.Sprintf("artifacts/%s/users/%s/userSettings/data", s.opts.AppID, uid)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *Store) SignUp(ctx context.Context, email, password string) (*User, *Token, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if len(password) < MinPasswordLen {
		return nil, nil, ErrWeakPassword
	}
	if _, err := s.userByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{UID: uuid.New().String(), Email: email, Provider: MethodPassword}
	if err := s.insertUser(ctx, u, string(hash)); err != nil {
		return nil, nil, err
	}
	s.logger.Info("user signed up", zap.String("uid", u.UID))
	s.record(ctx, Event{UID: u.UID, Action: EventSignedUp, Method: u.Provider})
	return s.startSession(ctx, u)
}

func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*User, *Token, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	var hash string
	u, err := s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT uid, email, display_name, provider, created_at, password_hash FROM users WHERE email = ?`, email), &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, u)
}

func (s *Store) SignInWithCustomToken(ctx context.Context, customToken string) (*User, *Token, error) {
	uid, err := verifyCustom(s.opts.Secret, strings.TrimSpace(customToken), s.now())
	if err != nil {
		return nil, nil, err
	}
	u, err := s.userByUID(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		u = &User{UID: uid, Provider: MethodCustom}
		if err := s.insertUser(ctx, u, ""); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}
	return s.startSession(ctx, u)
}

func (s *Store) SignInWithGoogle(ctx context.Context, authCode string) (*User, *Token, error) {
	if s.opts.Google == nil {
		return nil, nil, ErrGoogleNotConfigured
	}
	if authCode == "" {
		return nil, nil, ErrInvalidToken
	}
	profile, err := s.opts.Google.Exchange(ctx, authCode)
	if err != nil {
		s.logger.Warn("google exchange failed", zap.Error(err))
		return nil, nil, ErrInvalidToken
	}

	// A verified email that already has an account signs into that account.
	if profile.Email != "" && profile.EmailVerified {
		if email, err := normalizeEmail(profile.Email); err == nil {
			if u, err := s.userByEmail(ctx, email); err == nil {
				return s.startSession(ctx, u)
			}
		}
	}

	uid := uuid.NewSHA1(uuid.NameSpaceURL, []byte("accounts.google.com/"+profile.Subject)).String()
	u, err := s.userByUID(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		u = &User{UID: uid, DisplayName: profile.Name, Provider: MethodGoogle}
		if profile.EmailVerified {
			u.Email, _ = normalizeEmail(profile.Email)
		}
		if err := s.insertUser(ctx, u, ""); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}
	return s.startSession(ctx, u)
}

func (s *Store) SignOut(ctx context.Context, token string) error {
	var uid string
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM sessions WHERE token_hash = ? RETURNING uid`, hashToken(token)).Scan(&uid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	s.record(ctx, Event{UID: uid, Action: EventSignedOut})
	return nil
}

func (s *Store) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	var expires int64
	var uid string
	err := s.db.QueryRowContext(ctx,
		`SELECT uid, expires_at FROM sessions WHERE token_hash = ?`, hashToken(token)).Scan(&uid, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if !s.now().Before(time.Unix(expires, 0)) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, hashToken(token))
		return nil, ErrInvalidToken
	}
	u, err := s.userByUID(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	return u, err
}

func (s *Store) defaultSettings() Settings {
	return Settings{IsPremiumUser: true, FreeUsesRemaining: s.opts.FreeUsesLimit}
}

// LoadSettings returns uid's settings, creating the default document on
// first access. A stored document missing freeUsesRemaining reads as the
// configured limit.
func (s *Store) LoadSettings(ctx context.Context, uid string) (Settings, error) {
	path := s.SettingsPath(uid)
	raw, err := s.db.GetDocument(ctx, path)
	if errors.Is(err, db.ErrNotFound) {
		def := s.defaultSettings()
		if err := s.db.MergeDocument(ctx, path, map[string]any{
			"isPremiumUser":     def.IsPremiumUser,
			"freeUsesRemaining": def.FreeUsesRemaining,
		}); err != nil {
			return Settings{}, err
		}
		s.logger.Debug("default settings created", zap.String("uid", uid))
		return def, nil
	}
	if err != nil {
		return Settings{}, err
	}

	var stored struct {
		IsPremiumUser     bool `json:"isPremiumUser"`
		FreeUsesRemaining *int `json:"freeUsesRemaining"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	out := Settings{IsPremiumUser: stored.IsPremiumUser, FreeUsesRemaining: s.opts.FreeUsesLimit}
	if stored.FreeUsesRemaining != nil {
		out.FreeUsesRemaining = *stored.FreeUsesRemaining
	}
	return out, nil
}

// SaveSettings merges the non-nil fields of patch into uid's document.
func (s *Store) SaveSettings(ctx context.Context, uid string, patch SettingsPatch) error {
	fields, err := s.saveSettings(ctx, uid, patch)
	if err != nil || len(fields) == 0 {
		return err
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s.record(ctx, Event{UID: uid, Action: EventSettingsChanged, Detail: strings.Join(keys, ",")})
	return nil
}

func (s *Store) saveSettings(ctx context.Context, uid string, patch SettingsPatch) (map[string]any, error) {
	fields := map[string]any{}
	if patch.IsPremiumUser != nil {
		fields["isPremiumUser"] = *patch.IsPremiumUser
	}
	if patch.FreeUsesRemaining != nil {
		if *patch.FreeUsesRemaining < 0 {
			return nil, fmt.Errorf("freeUsesRemaining must be non-negative")
		}
		fields["freeUsesRemaining"] = *patch.FreeUsesRemaining
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, s.db.MergeDocument(ctx, s.SettingsPath(uid), fields)
}

// ResetAllowance marks uid premium and restores the full free allowance.
func (s *Store) ResetAllowance(ctx context.Context, uid string) (Settings, error) {
	def := s.defaultSettings()
	if _, err := s.saveSettings(ctx, uid, SettingsPatch{
		IsPremiumUser:     &def.IsPremiumUser,
		FreeUsesRemaining: &def.FreeUsesRemaining,
	}); err != nil {
		return Settings{}, err
	}
	s.record(ctx, Event{UID: uid, Action: EventAllowanceReset})
	return def, nil
}

func (s *Store) startSession(ctx context.Context, u *User) (*User, *Token, error) {
	value, hash, err := newSessionToken()
	if err != nil {
		return nil, nil, err
	}
	expires := s.now().Add(s.opts.SessionTTL)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (token_hash, uid, expires_at) VALUES (?, ?, ?)`, hash, u.UID, expires.Unix())
	if err != nil {
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}
	s.record(ctx, Event{UID: u.UID, Action: EventSignedIn, Method: u.Provider})
	return u, &Token{Value: value, ExpiresAt: expires.Truncate(time.Second)}, nil
}

func (s *Store) record(ctx context.Context, e Event) {
	if s.opts.Recorder != nil {
		s.opts.Recorder.Record(ctx, e)
	}
}

func (s *Store) insertUser(ctx context.Context, u *User, passwordHash string) error {
	u.CreatedAt = s.now().UTC().Truncate(time.Second)
	var email sql.NullString
	if u.Email != "" {
		email = sql.NullString{String: u.Email, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (uid, email, password_hash, display_name, provider, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.UID, email, passwordHash, u.DisplayName, u.Provider, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *Store) userByUID(ctx context.Context, uid string) (*User, error) {
	var discard string
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT uid, email, display_name, provider, created_at, password_hash FROM users WHERE uid = ?`, uid), &discard)
}

func (s *Store) userByEmail(ctx context.Context, email string) (*User, error) {
	var discard string
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT uid, email, display_name, provider, created_at, password_hash FROM users WHERE email = ?`, email), &discard)
}

func (s *Store) scanUser(row *sql.Row, passwordHash *string) (*User, error) {
	var (
		u       User
		email   sql.NullString
		created string
	)
	if err := row.Scan(&u.UID, &email, &u.DisplayName, &u.Provider, &created, passwordHash); err != nil {
		return nil, err
	}
	u.Email = email.String
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		u.CreatedAt = t
	}
	return &u, nil
}
