// Package identity manages accounts, sign-in sessions and the per-user
// settings document.
package identity

import (
	"context"
	"errors"
	"time"
)

// Sign-in methods recorded on a user.
const (
	MethodPassword = "password"
	MethodCustom   = "custom"
	MethodGoogle   = "google"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrWeakPassword        = errors.New("password should be at least 6 characters")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// User is a stored account.
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"created_at"`
}

// Label is what the UI shows as "logged in as".
func (u *User) Label() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Email != "" {
		return u.Email
	}
	return u.UID
}

// Token is an opaque bearer session token.
type Token struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Settings is the stored settings document. Field names match the
// document layout clients already read.
type Settings struct {
	IsPremiumUser     bool `json:"isPremiumUser"`
	FreeUsesRemaining int  `json:"freeUsesRemaining"`
}

// SettingsPatch names the fields to change; nil fields are left as stored.
type SettingsPatch struct {
	IsPremiumUser     *bool `json:"isPremiumUser,omitempty"`
	FreeUsesRemaining *int  `json:"freeUsesRemaining,omitempty"`
}

// Account events passed to a Recorder.
const (
	EventSignedUp        = "signed_up"
	EventSignedIn        = "signed_in"
	EventSignedOut       = "signed_out"
	EventSettingsChanged = "settings_changed"
	EventAllowanceReset  = "allowance_reset"
)

// Event is one account action.
type Event struct {
	UID    string
	Action string
	// Method is the sign-in method for sign-up and sign-in events.
	Method string
	Detail string
}

// Recorder receives account events. Record must not block for long; it
// runs inline with the request.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Service is the identity and settings port.
type Service interface {
	SignUp(ctx context.Context, email, password string) (*User, *Token, error)
	SignInWithPassword(ctx context.Context, email, password string) (*User, *Token, error)
	SignInWithCustomToken(ctx context.Context, customToken string) (*User, *Token, error)
	SignInWithGoogle(ctx context.Context, authCode string) (*User, *Token, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*User, error)
	LoadSettings(ctx context.Context, uid string) (Settings, error)
	SaveSettings(ctx context.Context, uid string, patch SettingsPatch) error
}
