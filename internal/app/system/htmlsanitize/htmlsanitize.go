// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// policy allows common formatting markup in user-generated content
// (comment bodies, post content) while stripping scripts, event handler
// attributes, and javascript: URLs.
var policy = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML from user-generated content.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
