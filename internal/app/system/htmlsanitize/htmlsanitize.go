// Package htmlsanitize cleans caller-supplied rich text before storage.
// Partner and event descriptions accept basic formatting; everything
// executable or stylistic beyond that is stripped.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps user-generated-content markup (paragraphs, emphasis, safe
// links) and removes scripts, event handlers, and javascript: URLs.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Plain strips all markup, returning text only. Used for fields that must
// never carry HTML (names, titles, subjects).
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
