// AngelaMos | 2026
// sanitize.go

package core

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips every HTML element from user-authored free text.
// Script and style bodies are dropped along with their tags.
func SanitizeText(s string) string {
	cleaned := strictPolicy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
