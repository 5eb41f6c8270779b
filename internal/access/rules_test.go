// AngelaMos | 2026
// rules_test.go

package access

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules("/v1")

	tests := []struct {
		method string
		path   string
		want   Requirement
	}{
		{http.MethodPost, "/v1/login", RequirePublic},
		{http.MethodPost, "/v1/users", RequirePublic},
		{http.MethodGet, "/v1/users", RequireAdmin},
		{http.MethodGet, "/v1/users/", RequireAdmin},
		{http.MethodGet, "/v1/users/7", RequireAuthenticated},
		{http.MethodDelete, "/v1/users/7", RequireAuthenticated},

		{http.MethodGet, "/v1/state", RequirePublic},
		{http.MethodGet, "/v1/state/3", RequirePublic},
		{http.MethodPost, "/v1/state", RequireAdmin},
		{http.MethodPut, "/v1/city/1", RequireAdmin},
		{http.MethodGet, "/v1/neighborhood", RequirePublic},
		{http.MethodDelete, "/v1/location/9", RequireAdmin},
		{http.MethodGet, "/v1/organizations/2", RequirePublic},
		{http.MethodPost, "/v1/organizations", RequireAdmin},

		{http.MethodGet, "/v1/complaints", RequireAdmin},
		{http.MethodGet, "/v1/complaints/5", RequireAuthenticated},
		{http.MethodGet, "/v1/complaints/user/5", RequireAuthenticated},
		{http.MethodPost, "/v1/complaints", RequireAuthenticated},
		{http.MethodPut, "/v1/complaints/5", RequireAuthenticated},

		{http.MethodGet, "/v1/followup", RequireAdmin},
		{http.MethodGet, "/v1/followup/4", RequireAuthenticated},
		{http.MethodGet, "/v1/followup/complaint/4", RequireAuthenticated},
		{http.MethodPost, "/v1/followup", RequireAdmin},
		{http.MethodDelete, "/v1/followup/4", RequireAdmin},

		{http.MethodGet, "/v1/admin/stats", RequireAdmin},
		{http.MethodGet, "/v1/unknown", RequireAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Requirement(tt.method, tt.path))
		})
	}
}

func TestRuleFirstMatchWins(t *testing.T) {
	rules := Rules{
		{Method: http.MethodGet, Pattern: "/a/**", Require: RequirePublic},
		{Pattern: "/a/**", Require: RequireAdmin},
	}

	assert.Equal(t, RequirePublic, rules.Requirement(http.MethodGet, "/a/b"))
	assert.Equal(t, RequireAdmin, rules.Requirement(http.MethodPost, "/a/b"))
}

func TestSubtreePatternDoesNotMatchSiblings(t *testing.T) {
	rule := Rule{Pattern: "/state/**", Require: RequirePublic}

	assert.True(t, rule.Matches(http.MethodGet, "/state"))
	assert.True(t, rule.Matches(http.MethodGet, "/state/1"))
	assert.False(t, rule.Matches(http.MethodGet, "/statement"))
}
