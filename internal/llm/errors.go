package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when a hosted provider has no credential.
var ErrMissingAPIKey = errors.New("api key is not set")

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// StatusError is a non-2xx reply from an HTTP provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// ErrorKind buckets provider failures into what the user is told.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidCredential
	KindNetwork
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidCredential:
		return "invalid_credential"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

var credentialHints = []string{
	"api key not valid",
	"api_key_invalid",
	"invalid api key",
	"invalid x-api-key",
	"incorrect api key",
	"permission_denied",
	"unauthenticated",
}

// Classify maps a provider error to an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, ErrMissingAPIKey) {
		return KindInvalidCredential
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "would exceed context deadline") {
		return KindTimeout
	}
	if isAuthStatus(statusOf(err)) {
		return KindInvalidCredential
	}

	for _, hint := range credentialHints {
		if strings.Contains(msg, hint) {
			return KindInvalidCredential
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}
	return KindUnknown
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// statusOf digs an HTTP status code out of the error types the SDKs return.
func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) {
		return gErrPtr.Code
	}
	var oErr *openai.APIError
	if errors.As(err, &oErr) {
		return oErr.HTTPStatusCode
	}
	var oReqErr *openai.RequestError
	if errors.As(err, &oReqErr) {
		return oReqErr.HTTPStatusCode
	}
	return 0
}
