// Package permission holds the role-derived authorization policies.
//
// A policy is a pure function of the actor, the action and (for object-level
// checks) the resource. A nil actor is an anonymous request.
package permission

import (
	"yamdb/internal/apperr"
	"yamdb/internal/http-api/models"
)

type Action int

const (
	List Action = iota
	Retrieve
	Create
	Update
	Delete
)

// Safe actions never modify state.
func (a Action) Safe() bool {
	return a == List || a == Retrieve
}

func (a Action) String() string {
	switch a {
	case List:
		return "list"
	case Retrieve:
		return "retrieve"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Resource is anything with an owning user.
type Resource interface {
	OwnerID() string
}

// Policy decides whether actor may perform action on res. res is nil for
// collection-level checks (list, create).
type Policy func(actor *models.User, action Action, res Resource) bool

// IsAdminSuperOrReadOnly lets anyone read and only admins write.
func IsAdminSuperOrReadOnly(actor *models.User, action Action, _ Resource) bool {
	if action.Safe() {
		return true
	}
	return actor.IsAdmin()
}

// AdminModeratorAuthor lets anyone read, any authenticated user create, and
// only the author, a moderator or an admin modify an existing object.
func AdminModeratorAuthor(actor *models.User, action Action, res Resource) bool {
	if action.Safe() {
		return true
	}
	if actor == nil {
		return false
	}
	if action == Create {
		return true
	}
	if actor.IsAdmin() || actor.IsModerator() {
		return true
	}
	return res != nil && res.OwnerID() == actor.ID
}

// UserRead guards the user directory. Collection actions are admin-only;
// a single profile is open to its owner and to admins.
func UserRead(actor *models.User, action Action, res Resource) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if action == List || action == Create {
		return false
	}
	return res != nil && res.OwnerID() == actor.ID
}

// Authenticated admits any signed-in actor. It backs the /users/me/ alias.
func Authenticated(actor *models.User, _ Action, _ Resource) bool {
	return actor != nil
}

// Check evaluates p and converts a denial into an error: 401 when nobody is
// signed in, 403 otherwise.
func Check(p Policy, actor *models.User, action Action, res Resource) error {
	if p(actor, action, res) {
		return nil
	}
	if actor == nil {
		return apperr.Unauthorized("Authentication credentials were not provided")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
