package user

import "timesheet-management/internal/auth"

// Policy holds the access rules for user records. Every method is a pure
// predicate over the actor and target; repeated evaluation always yields
// the same answer.
type Policy struct{}

// CanViewAny allows any authenticated actor to list users.
func (Policy) CanViewAny(actor *auth.User) bool {
	return actor != nil
}

// CanView allows any authenticated actor to view any user.
func (Policy) CanView(actor *auth.User, target *User) bool {
	return actor != nil
}

// CanCreate allows any authenticated actor to create users.
func (Policy) CanCreate(actor *auth.User) bool {
	return actor != nil
}

// CanUpdate allows any authenticated actor to update any user.
func (Policy) CanUpdate(actor *auth.User, target *User) bool {
	return actor != nil
}

// CanDelete allows deleting any user except the actor themselves.
func (Policy) CanDelete(actor *auth.User, target *User) bool {
	return actor != nil && actor.ID != target.ID
}
