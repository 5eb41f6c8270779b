// AngelaMos | 2026
// policy.go

package access

import (
	"github.com/carterperez-dev/ecodenuncia/internal/core"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Identity struct {
	ID    int64
	Email string
	Role  string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (a Action) IsRead() bool {
	return a == ActionList || a == ActionRead
}

type Scope int

const (
	// ScopePublicRead covers geography and organizations.
	ScopePublicRead Scope = iota
	// ScopeOwned covers complaints, followup reads and user self-service.
	ScopeOwned
	// ScopeAdmin covers followup writes and other administrator-only actions.
	ScopeAdmin
)

type Resource struct {
	Kind    string
	Scope   Scope
	OwnerID int64
}

func PublicRead(kind string) Resource {
	return Resource{Kind: kind, Scope: ScopePublicRead}
}

func Owned(kind string, ownerID int64) Resource {
	return Resource{Kind: kind, Scope: ScopeOwned, OwnerID: ownerID}
}

func AdminOnly(kind string) Resource {
	return Resource{Kind: kind, Scope: ScopeAdmin}
}

type Reason string

const (
	ReasonPublic          Reason = "public"
	ReasonAdmin           Reason = "admin"
	ReasonOwner           Reason = "owner"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotOwner        Reason = "not_owner"
	ReasonAdminRequired   Reason = "admin_required"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err maps a denial onto the error taxonomy: no identity is a 401, any other
// denial is a 403.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonUnauthenticated:
		return core.ErrUnauthorized
	default:
		return core.ErrForbidden
	}
}

func allow(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision  { return Decision{Allowed: false, Reason: r} }

// Authorize decides whether identity may perform action on res. A nil
// identity is an anonymous caller.
func Authorize(identity *Identity, action Action, res Resource) Decision {
	if res.Scope == ScopePublicRead && action.IsRead() {
		return allow(ReasonPublic)
	}

	if identity == nil {
		return deny(ReasonUnauthenticated)
	}

	if identity.IsAdmin() {
		return allow(ReasonAdmin)
	}

	switch res.Scope {
	case ScopeOwned:
		if action == ActionList {
			return deny(ReasonAdminRequired)
		}
		if res.OwnerID != 0 && res.OwnerID == identity.ID {
			return allow(ReasonOwner)
		}
		return deny(ReasonNotOwner)
	default:
		return deny(ReasonAdminRequired)
	}
}

// Check is Authorize reduced to an error.
func Check(identity *Identity, action Action, res Resource) error {
	return Authorize(identity, action, res).Err()
}
