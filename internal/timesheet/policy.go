package timesheet

import "timesheet-management/internal/auth"

// Policy holds the access rules for timesheet records. View requires the
// actor to own the entry or belong to its project; update and delete are
// owner-only. Membership is judged from the loaded project, so callers
// must pass targets read with their project and members.
type Policy struct{}

func (Policy) CanViewAny(actor *auth.User) bool {
	return actor != nil
}

// CanView allows the owner, and any member of the timesheet's project.
func (Policy) CanView(actor *auth.User, target *Timesheet) bool {
	if actor == nil {
		return false
	}
	if actor.ID == target.UserID {
		return true
	}
	return target.Project != nil && target.Project.IsMember(actor.ID)
}

func (Policy) CanCreate(actor *auth.User) bool {
	return actor != nil
}

// CanUpdate allows only the owner.
func (Policy) CanUpdate(actor *auth.User, target *Timesheet) bool {
	return actor != nil && actor.ID == target.UserID
}

// CanDelete allows only the owner.
func (Policy) CanDelete(actor *auth.User, target *Timesheet) bool {
	return actor != nil && actor.ID == target.UserID
}
