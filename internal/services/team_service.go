package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/danielmartins/team-tasks-api/internal/models"
	"github.com/danielmartins/team-tasks-api/internal/repository"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameTaken      = errors.New("team name already in use")
	ErrAlreadyTeamMember  = errors.New("user is already a member of this team")
	ErrTeamOrUserNotFound = errors.New("team or user not found")
	ErrNotTeamMember      = errors.New("user is not a member of this team")
	ErrMembersNotFound    = errors.New("one or more member ids do not exist")
)

// TeamService handles team and membership business logic.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CreateTeam creates a team with an optional initial member list. Duplicate
// ids in the list are collapsed to a single membership.
func (s *TeamService) CreateTeam(name string, description *string, memberIDs []uint64) (*models.Team, error) {
	name = strings.TrimSpace(name)

	if _, err := s.teamRepo.FindByName(name); err == nil {
		return nil, ErrTeamNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}

	team := &models.Team{
		Name:        name,
		Description: description,
	}
	if err := s.teamRepo.CreateWithMembers(team, uniqueUint64(memberIDs)); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, ErrMembersNotFound
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return s.teamRepo.FindByID(team.ID, "Members.User")
}

// GetTeams returns all teams with member and task counts.
func (s *TeamService) GetTeams() ([]repository.TeamWithCounts, error) {
	teams, err := s.teamRepo.ListWithCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns a team with its members and tasks.
func (s *TeamService) GetTeam(teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID, "Members.User", "Tasks", "Tasks.Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// UpdateTeam updates a team's name and/or description.
func (s *TeamService) UpdateTeam(teamID uint64, name *string, description *string) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed != team.Name {
			if _, err := s.teamRepo.FindByName(trimmed); err == nil {
				return nil, ErrTeamNameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check team name: %w", err)
			}
			team.Name = trimmed
		}
	}
	if description != nil {
		team.Description = description
	}

	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return s.teamRepo.FindByID(team.ID, "Members.User")
}

// DeleteTeam removes a team along with its memberships.
func (s *TeamService) DeleteTeam(teamID uint64) error {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	if err := s.teamRepo.Delete(teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// AddMember adds a user to a team.
func (s *TeamService) AddMember(teamID, userID uint64) (*models.TeamMember, error) {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamOrUserNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamOrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.teamRepo.FindMember(teamID, userID); err == nil {
		return nil, ErrAlreadyTeamMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.TeamMember{TeamID: teamID, UserID: userID}
	if err := s.teamRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

// RemoveMember removes a user from a team. Removing a user who is not a
// member is a no-op.
func (s *TeamService) RemoveMember(teamID, userID uint64) error {
	if err := s.teamRepo.RemoveMember(teamID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// GetTeamMembers returns a team's membership roster.
func (s *TeamService) GetTeamMembers(teamID uint64) ([]models.TeamMember, error) {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	members, err := s.teamRepo.ListMembers(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// uniqueUint64 returns ids with duplicates removed, order preserved.
func uniqueUint64(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
