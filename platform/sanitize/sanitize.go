// Package sanitize strips markup from free-form text fields (buyer notes)
// before they reach storage.
package sanitize

import (
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// entityReplacer decodes the entities commonly used to smuggle tags past a
// single stripping pass.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
)

// Text removes HTML tags from user-provided text. Entities are decoded and
// the result stripped again so encoded tags do not survive. Frontends still
// escape on output; this keeps stored notes plain.
func Text(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// TextPtr applies Text to an optional field, preserving nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
