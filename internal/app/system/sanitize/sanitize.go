// Package sanitize strips markup from caller-supplied free text before it
// is persisted. Decision comments and request messages come straight from
// API callers and end up rendered in back-office UIs, so anything that
// looks like HTML is removed up front.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
