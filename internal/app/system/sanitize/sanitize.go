// Package sanitize strips dangerous markup from user-generated forum
// content before it is stored. Post and comment bodies may carry basic
// formatting; titles and tags are plain text.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	content = bluemonday.UGCPolicy()
	strict  = bluemonday.StrictPolicy()
)

// Content sanitizes a post or comment body, keeping common user-generated
// formatting (links, emphasis, lists) and removing scripts and event
// handlers.
func Content(s string) string {
	return strings.TrimSpace(content.Sanitize(s))
}

// Strict strips all markup, leaving plain text. Used for titles and tags.
func Strict(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
