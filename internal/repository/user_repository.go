package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/danielmartins/team-tasks-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteWithReassignment removes a user and their dependent rows atomically.
// When another admin exists, the target's assigned tasks move to that admin
// and reopen as PENDING; otherwise the tasks are removed with the account.
func (r *GormUserRepository) DeleteWithReassignment(userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("changed_by = ?", userID).Delete(&models.TaskHistory{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		var admin models.User
		err := tx.Where("role = ? AND id <> ?", models.RoleAdmin, userID).
			First(&admin).Error
		switch {
		case err == nil:
			if err := tx.Model(&models.Task{}).
				Where("assigned_to = ?", userID).
				Updates(map[string]interface{}{
					"assigned_to": admin.ID,
					"status":      models.TaskStatusPending,
				}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No other admin left to take the tasks over.
			var taskIDs []uint64
			if err := tx.Model(&models.Task{}).Where("assigned_to = ?", userID).
				Pluck("id", &taskIDs).Error; err != nil {
				return err
			}
			if len(taskIDs) > 0 {
				if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskHistory{}).Error; err != nil {
					return err
				}
				if err := tx.Where("assigned_to = ?", userID).Delete(&models.Task{}).Error; err != nil {
					return err
				}
			}
		default:
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}
