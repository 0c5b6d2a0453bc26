package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/danielmartins/team-tasks-api/internal/models"
)

// ErrMemberNotFound is returned from CreateWithMembers when one of the
// initial member IDs does not resolve to an existing user.
var ErrMemberNotFound = errors.New("team repository: member user not found")

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithMembers creates a team and its initial memberships atomically.
// Either the team and every membership persist, or none do.
func (r *GormTeamRepository) CreateWithMembers(team *models.Team, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		if len(memberIDs) == 0 {
			return nil
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("id IN ?", memberIDs).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(memberIDs) {
			return ErrMemberNotFound
		}

		members := make([]models.TeamMember, len(memberIDs))
		for i, userID := range memberIDs {
			members[i] = models.TeamMember{
				TeamID: team.ID,
				UserID: userID,
			}
		}
		if err := tx.Create(&members).Error; err != nil {
			return fmt.Errorf("create memberships: %w", err)
		}

		return nil
	})
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(id uint64, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by its unique name
func (r *GormTeamRepository) FindByName(name string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListWithCounts lists all teams with member and task counts
func (r *GormTeamRepository) ListWithCounts() ([]TeamWithCounts, error) {
	var teams []TeamWithCounts
	err := r.db.Model(&models.Team{}).
		Select(`teams.*,
			(SELECT COUNT(*) FROM team_members WHERE team_members.team_id = teams.id) AS members_count,
			(SELECT COUNT(*) FROM tasks WHERE tasks.team_id = teams.id) AS tasks_count`).
		Order("teams.id").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// Update persists changes to a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete removes a team, its memberships, its tasks and their history in
// a transaction
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("team_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("team_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, id).Error
	})
}

// AddMember adds a member to a team
func (r *GormTeamRepository) AddMember(member *models.TeamMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a membership; deleting an absent pair is a no-op
func (r *GormTeamRepository) RemoveMember(teamID, userID uint64) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}

// FindMember finds a specific team membership
func (r *GormTeamRepository) FindMember(teamID, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a team with their users
func (r *GormTeamRepository) ListMembers(teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Preload("User").
		Where("team_id = ?", teamID).
		Order("user_id").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListTeamIDsByUser returns the IDs of all teams a user belongs to
func (r *GormTeamRepository) ListTeamIDsByUser(userID uint64) ([]uint64, error) {
	var teamIDs []uint64
	err := r.db.Model(&models.TeamMember{}).
		Where("user_id = ?", userID).
		Pluck("team_id", &teamIDs).Error
	if err != nil {
		return nil, err
	}
	return teamIDs, nil
}
