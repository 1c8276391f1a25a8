package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProfile is the subset of the OpenID userinfo response we keep.
type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleVerifier turns an authorization code from the consent screen into
// a verified profile.
type GoogleVerifier interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

// OAuthVerifier implements GoogleVerifier with the OAuth2 code flow.
type OAuthVerifier struct {
	conf        *oauth2.Config
	userinfoURL string
}

// NewOAuthVerifier creates a verifier for the given OAuth client.
func NewOAuthVerifier(clientID, clientSecret, redirectURL string) *OAuthVerifier {
	return &OAuthVerifier{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
	}
}

func (v *OAuthVerifier) AuthCodeURL(state string) string {
	return v.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (v *OAuthVerifier) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := v.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating userinfo request: %w", err)
	}
	resp, err := v.conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned status %d: %s", resp.StatusCode, body)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	if profile.Subject == "" {
		return nil, fmt.Errorf("userinfo has no subject")
	}
	return &profile, nil
}
