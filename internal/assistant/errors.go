package assistant

import (
	"errors"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/ziadkadry99/learnova/internal/llm"
)

const failurePrefix = "Failed to get answer from AI. "

// User-facing explanations for each failure kind.
const (
	MsgEmptySubmission   = "Please enter a question or upload an image."
	MsgImageRead         = "Failed to read image file."
	MsgNoAnswer          = "No answer to export."
	MsgInvalidCredential = "The AI service credential is invalid or not authorized. Please check your API key."
	MsgNetwork           = "A network error occurred while contacting the AI service. Please check your internet connection and try again."
	MsgUnknown           = "An unknown error occurred while generating the explanation."
)

// ImageTooLargeError reports an image above the configured size limit.
type ImageTooLargeError struct {
	Limit int64
}

func (e *ImageTooLargeError) Error() string {
	return "image is larger than " + humanize.IBytes(uint64(e.Limit))
}

func (e *ImageTooLargeError) Unwrap() error {
	return ErrImageRead
}

// GenerationError is a classified provider failure.
type GenerationError struct {
	Kind llm.ErrorKind
	Err  error
}

func newGenerationError(err error) *GenerationError {
	return &GenerationError{Kind: llm.Classify(err), Err: err}
}

func (e *GenerationError) Error() string {
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user for err.
func UserMessage(err error) string {
	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		var large *ImageTooLargeError
		switch {
		case errors.Is(err, ErrEmptySubmission):
			return MsgEmptySubmission
		case errors.As(err, &large):
			return MsgImageRead + " Images must be " + humanize.IBytes(uint64(large.Limit)) + " or smaller."
		case errors.Is(err, ErrImageRead):
			return MsgImageRead
		case errors.Is(err, ErrNoAnswer):
			return MsgNoAnswer
		}
		return failurePrefix + MsgUnknown
	}
	switch gerr.Kind {
	case llm.KindInvalidCredential:
		return failurePrefix + MsgInvalidCredential
	case llm.KindNetwork, llm.KindTimeout:
		return failurePrefix + MsgNetwork
	default:
		msg := gerr.Err.Error()
		if msg == "" {
			msg = MsgUnknown
		}
		return failurePrefix + msg
	}
}

// StatusFor maps err to an HTTP status code.
func StatusFor(err error) int {
	var gerr *GenerationError
	switch {
	case errors.Is(err, ErrEmptySubmission), errors.Is(err, ErrImageRead), errors.Is(err, ErrNoAnswer):
		return http.StatusBadRequest
	case errors.As(err, &gerr):
		if gerr.Kind == llm.KindTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindOf names the failure class reported to API clients.
func KindOf(err error) string {
	var gerr *GenerationError
	switch {
	case errors.Is(err, ErrEmptySubmission), errors.Is(err, ErrNoAnswer):
		return "validation"
	case errors.Is(err, ErrImageRead):
		return "image"
	case errors.As(err, &gerr):
		return gerr.Kind.String()
	default:
		return "internal"
	}
}
