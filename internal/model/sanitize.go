package model

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

// SanitizeRichText strips everything but a small inline vocabulary from
// host-authored labels and descriptions so renderers can emit them without
// escaping. Plain text passes through untouched.
func SanitizeRichText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(richTextSanitizer().Sanitize(trimmed))
}

func richTextSanitizer() *bluemonday.Policy {
	richTextPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"b", "strong", "i", "em", "u", "s", "code", "small",
			"sub", "sup", "mark", "abbr", "span", "br",
		)
		policy.AllowAttrs("class").OnElements("span", "code", "abbr")
		policy.AllowAttrs("title").OnElements("abbr")
		policy.AllowAttrs("href", "title", "rel", "target").OnElements("a")
		policy.AllowElements("a")
		policy.RequireNoFollowOnLinks(true)

		richTextPolicy = policy
	})
	return richTextPolicy
}
