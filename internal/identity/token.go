package identity

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Custom tokens have the form base64url(uid).expiry.signature, where the
// signature is HMAC-SHA256 over the first two parts.
func signCustom(secret []byte, uid string, expiry time.Time) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(uid)) + "." + strconv.FormatInt(expiry.Unix(), 10)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return payload + "." + hex.EncodeToString(mac.Sum(nil))
}

func verifyCustom(secret []byte, token string, now time.Time) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	want := mac.Sum(nil)
	got, err := hex.DecodeString(parts[2])
	if err != nil || !hmac.Equal(got, want) {
		return "", ErrInvalidToken
	}

	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || !now.Before(time.Unix(exp, 0)) {
		return "", ErrInvalidToken
	}
	uid, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil || len(uid) == 0 {
		return "", ErrInvalidToken
	}
	return string(uid), nil
}

// newSessionToken returns a random bearer token and the hash stored for it.
func newSessionToken() (value, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating session token: %w", err)
	}
	value = hex.EncodeToString(b)
	return value, hashToken(value), nil
}

func hashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
