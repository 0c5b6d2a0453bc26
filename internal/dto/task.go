package dto

import (
	"time"

	"github.com/danielmartins/team-tasks-api/internal/models"
)

// TeamSummaryDTO represents a team embedded in other resources
type TeamSummaryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssignedTo  uint64              `json:"assignedTo"`
	TeamID      uint64              `json:"teamId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Assignee    *UserSummaryDTO     `json:"assignee,omitempty"`
	Team        *TeamSummaryDTO     `json:"team,omitempty"`
	History     []TaskHistoryDTO    `json:"history,omitempty"`
}

// TaskHistoryDTO represents a status change in API responses
type TaskHistoryDTO struct {
	ID        uint64            `json:"id"`
	TaskID    uint64            `json:"taskId"`
	OldStatus models.TaskStatus `json:"oldStatus"`
	NewStatus models.TaskStatus `json:"newStatus"`
	ChangedAt time.Time         `json:"changedAt"`
	ChangedBy *UserSummaryDTO   `json:"changedBy,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		AssignedTo:  task.AssignedTo,
		TeamID:      task.TeamID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.Assignee.ID != 0 {
		assignee := ToUserSummaryDTO(task.Assignee)
		dto.Assignee = &assignee
	}

	// Include team if preloaded
	if task.Team.ID != 0 {
		dto.Team = &TeamSummaryDTO{ID: task.Team.ID, Name: task.Team.Name}
	}

	if len(task.History) > 0 {
		dto.History = ToTaskHistoryDTOs(task.History)
	}

	return dto
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTaskHistoryDTO converts a TaskHistory model to TaskHistoryDTO
func ToTaskHistoryDTO(entry models.TaskHistory) TaskHistoryDTO {
	dto := TaskHistoryDTO{
		ID:        entry.ID,
		TaskID:    entry.TaskID,
		OldStatus: entry.OldStatus,
		NewStatus: entry.NewStatus,
		ChangedAt: entry.ChangedAt,
	}

	if entry.ChangedByUser.ID != 0 {
		user := ToUserSummaryDTO(entry.ChangedByUser)
		dto.ChangedBy = &user
	}

	return dto
}

// ToTaskHistoryDTOs converts a slice of TaskHistory models
func ToTaskHistoryDTOs(entries []models.TaskHistory) []TaskHistoryDTO {
	dtos := make([]TaskHistoryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ToTaskHistoryDTO(entry)
	}
	return dtos
}
