// Package core provides the shared test execution model for casesheet:
// step results, case status rollup, screenshots and structured errors.
package core

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Common content types
const (
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

const dataURLPrefix = "data:"

// Screenshot is an image pasted onto a step, kept in memory only.
type Screenshot struct {
	ContentType string
	Body        []byte
}

// NewScreenshot sniffs data and accepts it only if it is an image.
func NewScreenshot(data []byte) (Screenshot, error) {
	if len(data) == 0 {
		return Screenshot{}, ErrNotImage
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Screenshot{}, ErrNotImage.WithDetails(map[string]interface{}{"detected": mt.String()})
	}
	return Screenshot{ContentType: mt.String(), Body: data}, nil
}

// ParseDataURL decodes a base64 data URL such as the ones produced by
// FileReader.readAsDataURL. The declared media type is ignored; the
// payload itself must sniff as an image.
func ParseDataURL(s string) (Screenshot, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, dataURLPrefix) {
		return Screenshot{}, ErrNotImage
	}
	meta, payload, ok := strings.Cut(s[len(dataURLPrefix):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return Screenshot{}, ErrNotImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Screenshot{}, ErrNotImage.WithCause(err)
	}
	return NewScreenshot(data)
}

// DataURL encodes the screenshot as an inline data URL.
func (s Screenshot) DataURL() string {
	return dataURLPrefix + s.ContentType + ";base64," + base64.StdEncoding.EncodeToString(s.Body)
}

// IsImageDataURL reports whether s is an inline image that can be
// embedded without an external reference.
func IsImageDataURL(s string) bool {
	_, err := ParseDataURL(s)
	return err == nil
}
