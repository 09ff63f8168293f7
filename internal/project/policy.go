package project

import "timesheet-management/internal/auth"

// Policy holds the access rules for project records. Any authenticated
// actor may do anything; membership only gates timesheet visibility, not
// the projects themselves.
type Policy struct{}

func (Policy) CanViewAny(actor *auth.User) bool {
	return actor != nil
}

func (Policy) CanView(actor *auth.User, target *Project) bool {
	return actor != nil
}

func (Policy) CanCreate(actor *auth.User) bool {
	return actor != nil
}

func (Policy) CanUpdate(actor *auth.User, target *Project) bool {
	return actor != nil
}

func (Policy) CanDelete(actor *auth.User, target *Project) bool {
	return actor != nil
}
