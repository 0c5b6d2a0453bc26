package services

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/danielmartins/team-tasks-api/internal/constants"
	"github.com/danielmartins/team-tasks-api/internal/models"
	"github.com/danielmartins/team-tasks-api/internal/policy"
	"github.com/danielmartins/team-tasks-api/internal/repository"
)

var (
	ErrSelfDeletion       = errors.New("admins cannot delete their own account")
	ErrUserDeletionDenied = errors.New("not allowed to delete this user")
)

// UserService handles user account business logic.
type UserService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log,
	}
}

// GetUsers returns all user accounts.
func (s *UserService) GetUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetProfile returns a single user by id.
func (s *UserService) GetProfile(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput represents fields a user can change on their own account.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateProfile applies profile changes to the given user.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	return s.applyUserUpdate(userID, input, nil)
}

// UpdateAnyUser applies profile changes to any account, optionally changing
// its role. Admin only; the handler enforces that.
func (s *UserService) UpdateAnyUser(userID uint64, input UpdateProfileInput, role *models.Role) (*models.User, error) {
	return s.applyUserUpdate(userID, input, role)
}

func (s *UserService) applyUserUpdate(userID uint64, input UpdateProfileInput, role *models.Role) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.Password = string(hashed)
	}
	if role != nil {
		user.Role = *role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteOwnAccount removes the given user's own account.
func (s *UserService) DeleteOwnAccount(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.DeleteWithReassignment(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info("user deleted own account", zap.Uint64("user_id", userID))
	return nil
}

// DeleteUser removes another user's account. The target's open tasks are
// reassigned to a surviving admin and reset to PENDING; if no other admin
// exists they are removed with the account.
func (s *UserService) DeleteUser(actor policy.Actor, targetID uint64) error {
	if !policy.CanDeleteUser(actor, targetID) {
		if actor.ID == targetID {
			return ErrSelfDeletion
		}
		return ErrUserDeletionDenied
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.DeleteWithReassignment(target.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info("user deleted by admin",
		zap.Uint64("user_id", target.ID),
		zap.Uint64("deleted_by", actor.ID),
	)
	return nil
}
