// Package policy holds the authorization rules as pure functions over an
// actor and the resource being touched. Membership facts are passed in as
// data so every predicate can be tested without a database.
package policy

import "github.com/danielmartins/team-tasks-api/internal/models"

// Actor is the authenticated identity resolved from a request token.
type Actor struct {
	ID   uint64
	Role models.Role
}

// IsAdmin reports whether the actor carries the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanViewTask allows admins and members of the task's team.
func CanViewTask(actor Actor, task *models.Task, isTeamMember bool) bool {
	if actor.IsAdmin() {
		return true
	}
	return isTeamMember
}

// CanMutateTask allows admins and the task's current assignee.
func CanMutateTask(actor Actor, task *models.Task) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.ID == task.AssignedTo
}

// CanManageTeam gates team create/update/delete and membership changes.
func CanManageTeam(actor Actor) bool {
	return actor.IsAdmin()
}

// CanListAllTasks reports whether the actor may list tasks without the
// implicit restriction to their own team memberships.
func CanListAllTasks(actor Actor) bool {
	return actor.IsAdmin()
}

// CanFilterByAssignee reports whether the actor may filter a task listing
// by the given assignee. Non-admins may only ask for their own tasks.
func CanFilterByAssignee(actor Actor, assignedTo uint64) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.ID == assignedTo
}

// CanViewAllUsers gates the full user listing.
func CanViewAllUsers(actor Actor) bool {
	return actor.IsAdmin()
}

// CanManageAnyUser gates updates to arbitrary accounts.
func CanManageAnyUser(actor Actor) bool {
	return actor.IsAdmin()
}

// CanDeleteUser gates deletion of arbitrary accounts. Admins are blocked
// from deleting themselves through this path; self-service deletion is the
// only way to remove one's own account.
func CanDeleteUser(actor Actor, targetID uint64) bool {
	return actor.IsAdmin() && actor.ID != targetID
}
