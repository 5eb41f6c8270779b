// AngelaMos | 2026
// policy_test.go

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
)

var (
	admin = &Identity{ID: 1, Email: "admin@eco.br", Role: RoleAdmin}
	alice = &Identity{ID: 2, Email: "alice@eco.br", Role: RoleUser}
	bob   = &Identity{ID: 3, Email: "bob@eco.br", Role: RoleUser}
)

func TestPublicReadResources(t *testing.T) {
	res := PublicRead("city")

	for _, action := range []Action{ActionList, ActionRead} {
		for _, who := range []*Identity{nil, alice, admin} {
			d := Authorize(who, action, res)
			assert.True(t, d.Allowed, "action %s", action)
		}
	}

	for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		assert.ErrorIs(t, Check(nil, action, res), core.ErrUnauthorized)
		assert.ErrorIs(t, Check(alice, action, res), core.ErrForbidden)
		assert.NoError(t, Check(admin, action, res))
	}
}

func TestOwnedResources(t *testing.T) {
	res := Owned("complaint", alice.ID)

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete, ActionCreate} {
		assert.NoError(t, Check(alice, action, res), "owner %s", action)
		assert.NoError(t, Check(admin, action, res), "admin %s", action)
		assert.ErrorIs(t, Check(bob, action, res), core.ErrForbidden, "other %s", action)
		assert.ErrorIs(t, Check(nil, action, res), core.ErrUnauthorized, "anon %s", action)
	}
}

func TestOwnedListRequiresAdmin(t *testing.T) {
	res := Owned("complaint", 0)

	d := Authorize(alice, ActionList, res)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonAdminRequired, d.Reason)

	assert.NoError(t, Check(admin, ActionList, res))
}

func TestOwnedWithoutOwnerDeniesUsers(t *testing.T) {
	d := Authorize(alice, ActionRead, Owned("complaint", 0))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)
}

func TestAdminOnly(t *testing.T) {
	res := AdminOnly("followup")

	for _, action := range []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
		assert.NoError(t, Check(admin, action, res))
		assert.ErrorIs(t, Check(alice, action, res), core.ErrForbidden)
		assert.ErrorIs(t, Check(nil, action, res), core.ErrUnauthorized)
	}
}

func TestDecisionReasons(t *testing.T) {
	assert.Equal(t, ReasonPublic, Authorize(nil, ActionRead, PublicRead("state")).Reason)
	assert.Equal(t, ReasonAdmin, Authorize(admin, ActionDelete, Owned("user", bob.ID)).Reason)
	assert.Equal(t, ReasonOwner, Authorize(bob, ActionUpdate, Owned("user", bob.ID)).Reason)
	assert.Equal(t, ReasonUnauthenticated, Authorize(nil, ActionCreate, PublicRead("state")).Reason)
}
