package repository

import (
	"github.com/danielmartins/team-tasks-api/internal/models"
)

// TaskFilter holds filtering options for listing tasks.
type TaskFilter struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	TeamIDs    []uint64 // when non-nil, restrict to these teams
	AssignedTo *uint64
	Page       int
	PageSize   int
}

// TeamWithCounts is a team row annotated with member and task counts.
type TeamWithCounts struct {
	models.Team
	MembersCount int64 `json:"members_count"`
	TasksCount   int64 `json:"tasks_count"`
}

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	// Create creates a new task.
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading.
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, newest first.
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists changes to a task.
	Update(task *models.Task) error

	// Delete removes a task and all of its history atomically.
	Delete(id uint64) error

	// AppendHistory appends an audit record for a status change.
	AppendHistory(entry *models.TaskHistory) error

	// ListHistory returns a task's history, newest first.
	ListHistory(taskID uint64) ([]models.TaskHistory, error)
}

// TeamRepository defines the interface for team data access.
type TeamRepository interface {
	// CreateWithMembers creates a team and its initial memberships in a
	// single transaction. Member IDs must already be deduplicated.
	CreateWithMembers(team *models.Team, memberIDs []uint64) error

	// FindByID finds a team by ID with optional preloading.
	FindByID(id uint64, preload ...string) (*models.Team, error)

	// FindByName finds a team by its unique name.
	FindByName(name string) (*models.Team, error)

	// ListWithCounts lists all teams with member and task counts.
	ListWithCounts() ([]TeamWithCounts, error)

	// Update persists changes to a team.
	Update(team *models.Team) error

	// Delete removes a team with its memberships, tasks and task
	// history atomically.
	Delete(id uint64) error

	// AddMember adds a member to a team.
	AddMember(member *models.TeamMember) error

	// RemoveMember removes a membership; a no-op when it does not exist.
	RemoveMember(teamID, userID uint64) error

	// FindMember finds a specific team membership.
	FindMember(teamID, userID uint64) (*models.TeamMember, error)

	// ListMembers lists all members of a team with their users.
	ListMembers(teamID uint64) ([]models.TeamMember, error)

	// ListTeamIDsByUser returns the IDs of all teams a user belongs to.
	ListTeamIDsByUser(userID uint64) ([]uint64, error)
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user.
	Create(user *models.User) error

	// FindByID finds a user by ID.
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email.
	FindByEmail(email string) (*models.User, error)

	// List returns all users.
	List() ([]models.User, error)

	// Update persists changes to a user.
	Update(user *models.User) error

	// DeleteWithReassignment removes a user and their dependent rows in a
	// single transaction: history they authored, their memberships, and
	// their assigned tasks reassigned to another admin (reset to PENDING)
	// when one exists.
	DeleteWithReassignment(userID uint64) error
}
