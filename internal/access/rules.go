// AngelaMos | 2026
// rules.go

package access

import (
	"net/http"
	"strings"
)

type Requirement int

const (
	RequireAuthenticated Requirement = iota
	RequirePublic
	RequireAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequirePublic:
		return "public"
	case RequireAdmin:
		return "admin"
	default:
		return "authenticated"
	}
}

// Rule gates a method and path pattern. An empty Method matches any verb.
// Pattern is an exact path, or a prefix followed by "/**" which matches the
// prefix itself and everything below it.
type Rule struct {
	Method  string
	Pattern string
	Require Requirement
}

func (r Rule) Matches(method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	return matchPattern(r.Pattern, path)
}

// Rules are evaluated in order; the first match wins and unmatched requests
// require authentication.
type Rules []Rule

func (rs Rules) Requirement(method, path string) Requirement {
	path = normalizePath(path)
	for _, rule := range rs {
		if rule.Matches(method, path) {
			return rule.Require
		}
	}
	return RequireAuthenticated
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}

func normalizePath(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// DefaultRules is the route table of the API mounted under prefix.
func DefaultRules(prefix string) Rules {
	p := func(s string) string { return prefix + s }

	rules := Rules{
		{Method: http.MethodPost, Pattern: p("/login"), Require: RequirePublic},

		{Method: http.MethodPost, Pattern: p("/users"), Require: RequirePublic},
		{Method: http.MethodGet, Pattern: p("/users"), Require: RequireAdmin},
		{Pattern: p("/users/**"), Require: RequireAuthenticated},

		{Method: http.MethodGet, Pattern: p("/complaints/user/**"), Require: RequireAuthenticated},
		{Method: http.MethodGet, Pattern: p("/complaints"), Require: RequireAdmin},
		{Pattern: p("/complaints/**"), Require: RequireAuthenticated},

		{Method: http.MethodGet, Pattern: p("/followup/complaint/**"), Require: RequireAuthenticated},
		{Method: http.MethodGet, Pattern: p("/followup"), Require: RequireAdmin},
		{Method: http.MethodGet, Pattern: p("/followup/**"), Require: RequireAuthenticated},
		{Pattern: p("/followup/**"), Require: RequireAdmin},

		{Pattern: p("/admin/**"), Require: RequireAdmin},
	}

	for _, resource := range []string{
		"/state",
		"/city",
		"/neighborhood",
		"/location",
		"/organizations",
	} {
		rules = append(rules,
			Rule{Method: http.MethodGet, Pattern: p(resource + "/**"), Require: RequirePublic},
			Rule{Pattern: p(resource + "/**"), Require: RequireAdmin},
		)
	}

	return rules
}
