// Package htmlsanitize cleans user-generated text before it is stored.
// It uses bluemonday: rich text keeps safe formatting, plain fields lose all markup.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  *bluemonday.Policy
	plainPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		richPolicy = bluemonday.UGCPolicy()
		richPolicy.AllowElements("u", "s", "sub", "sup", "mark")
		richPolicy.AddTargetBlankToFullyQualifiedLinks(true)

		plainPolicy = bluemonday.StrictPolicy()
	})
	return richPolicy, plainPolicy
}

// Sanitize cleans rich text (post descriptions), removing scripts, event
// handlers and unsafe URLs while keeping basic formatting, links and lists.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	rich, _ := policies()
	return rich.Sanitize(html)
}

// PlainText strips every tag from s and trims surrounding whitespace. Used for
// titles, comments and notification text. HTML special characters in the
// result are entity-escaped.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	_, plain := policies()
	return strings.TrimSpace(plain.Sanitize(s))
}
