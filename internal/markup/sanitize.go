package markup

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips anything outside the element set the engines emit.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a sanitizer based on bluemonday's UGC policy that also
// keeps class and inline style attributes (used by highlighted code).
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[A-Za-z0-9 _.:-]*$`)).Globally()
	p.AllowStyles("color", "background-color", "font-weight", "font-style").OnElements("span", "pre")
	return &Sanitizer{policy: p}
}

// Sanitize returns a cleaned copy of markup.
func (s *Sanitizer) Sanitize(markup string) string {
	return s.policy.Sanitize(markup)
}
