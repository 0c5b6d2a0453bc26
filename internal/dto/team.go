package dto

import (
	"time"

	"github.com/danielmartins/team-tasks-api/internal/models"
	"github.com/danielmartins/team-tasks-api/internal/repository"
)

// TeamDTO represents a team in list responses, with aggregate counts
type TeamDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MembersCount int64     `json:"membersCount"`
	TasksCount   int64     `json:"tasksCount"`
}

// TeamDetailDTO represents a single team with members and tasks
type TeamDetailDTO struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Members     []TeamMemberDTO `json:"members"`
	Tasks       []TaskDTO       `json:"tasks,omitempty"`
}

// TeamMemberDTO represents a member in a team roster
type TeamMemberDTO struct {
	ID       uint64      `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	JoinedAt time.Time   `json:"joinedAt"`
}

// ToTeamDTO converts a TeamWithCounts row to TeamDTO
func ToTeamDTO(team repository.TeamWithCounts) TeamDTO {
	return TeamDTO{
		ID:           team.ID,
		Name:         team.Name,
		Description:  team.Description,
		CreatedAt:    team.CreatedAt,
		UpdatedAt:    team.UpdatedAt,
		MembersCount: team.MembersCount,
		TasksCount:   team.TasksCount,
	}
}

// ToTeamDTOs converts a slice of TeamWithCounts rows
func ToTeamDTOs(teams []repository.TeamWithCounts) []TeamDTO {
	dtos := make([]TeamDTO, len(teams))
	for i, team := range teams {
		dtos[i] = ToTeamDTO(team)
	}
	return dtos
}

// ToTeamDetailDTO converts a Team model with preloaded members and tasks
func ToTeamDetailDTO(team models.Team) TeamDetailDTO {
	dto := TeamDetailDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
		Members:     ToTeamMemberDTOs(team.Members),
	}

	if len(team.Tasks) > 0 {
		dto.Tasks = ToTaskDTOs(team.Tasks)
	}

	return dto
}

// ToTeamMemberDTO converts a TeamMember with a preloaded user
func ToTeamMemberDTO(member models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		ID:       member.UserID,
		Name:     member.User.Name,
		Email:    member.User.Email,
		Role:     member.User.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToTeamMemberDTOs converts a slice of TeamMember models
func ToTeamMemberDTOs(members []models.TeamMember) []TeamMemberDTO {
	dtos := make([]TeamMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToTeamMemberDTO(member)
	}
	return dtos
}
