package assistant

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/ziadkadry99/learnova/internal/llm"
)

// ImageInput is an uploaded image. Exactly one of Data or Encoded is set;
// Encoded holds base64 or a data URI.
type ImageInput struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
	Encoded  string `json:"data"`
}

// DecodeImage returns the raw image bytes and MIME type. Any failure wraps
// ErrImageRead.
func DecodeImage(in ImageInput, maxBytes int64) (llm.Image, error) {
	data := in.Data
	mimeType := strings.TrimSpace(in.MIMEType)

	if data == nil {
		payload := strings.TrimSpace(in.Encoded)
		if strings.HasPrefix(payload, "data:") {
			header, body, ok := strings.Cut(payload, ",")
			if !ok || !strings.HasSuffix(header, ";base64") {
				return llm.Image{}, fmt.Errorf("%w: malformed data URI", ErrImageRead)
			}
			if declared := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"); declared != "" {
				mimeType = declared
			}
			payload = body
		}
		if payload == "" {
			return llm.Image{}, fmt.Errorf("%w: empty image", ErrImageRead)
		}
		if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
			return llm.Image{}, imageTooLarge(maxBytes)
		}
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return llm.Image{}, fmt.Errorf("%w: %v", ErrImageRead, err)
		}
		data = decoded
	}

	if len(data) == 0 {
		return llm.Image{}, fmt.Errorf("%w: empty image", ErrImageRead)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return llm.Image{}, imageTooLarge(maxBytes)
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return llm.Image{}, fmt.Errorf("%w: %s is not an image", ErrImageRead, mimeType)
	}
	return llm.Image{Data: data, MIMEType: mimeType}, nil
}

func imageTooLarge(maxBytes int64) error {
	return &ImageTooLargeError{Limit: maxBytes}
}
