// Package htmlsanitize cleans user-supplied profile markup before it is
// stored. Bios may arrive as rich text from the profile editor; anything
// that is not plain text goes through a bluemonday UGC policy.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "mark")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Sanitize strips scripts, event handlers, and unsafe URLs from s.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// IsPlainText reports whether s contains no markup. A lone '<' or '>' (as in
// "5 < 10") is still plain text.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// Bio returns the stored form of a profile bio: trimmed, and sanitized only
// when it carries markup so plain text keeps its apostrophes and ampersands.
func Bio(s string) string {
	s = strings.TrimSpace(s)
	if IsPlainText(s) {
		return s
	}
	return Sanitize(s)
}
