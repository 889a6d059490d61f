package service

import (
	"context"
	"fmt"

	"github.com/mhsanaei/todo-api/database"
	"github.com/mhsanaei/todo-api/database/model"
	"github.com/mhsanaei/todo-api/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser inserts a user unless the username is taken. The unique index
// on username decides; false means the name already exists.
func (s *UserService) CreateUser(ctx context.Context, username string, hashedPassword string) (bool, error) {
	user := &model.User{
		Username:       username,
		HashedPassword: hashedPassword,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user)
	if result.Error != nil {
		return false, fmt.Errorf("create user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetUserByUsername returns nil, nil when no user has that exact username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID returns nil, nil for an unknown id.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).First(user, id).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUsername renames a user. False means userId does not exist or
// another user holds newUsername.
func (s *UserService) UpdateUsername(ctx context.Context, userId int, newUsername string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userId).
		Update("username", newUsername)
	if database.IsDuplicate(result.Error) {
		return false, nil
	} else if result.Error != nil {
		return false, fmt.Errorf("update username: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RemoveUser deletes the user, every task they created together with the
// tags and grants on those tasks, and every grant made to them. Unknown ids
// are a no-op.
func (s *UserService) RemoveUser(ctx context.Context, userId int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&model.Task{}).Select("id").Where("creator_id = ?", userId)
		if err := tx.Where("task_id IN (?)", owned).Delete(&model.Permission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN (?)", owned).Delete(&model.Tag{}).Error; err != nil {
			return err
		}
		tasks := tx.Where("creator_id = ?", userId).Delete(&model.Task{})
		if tasks.Error != nil {
			return tasks.Error
		}
		if err := tx.Where("user_id = ?", userId).Delete(&model.Permission{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.User{}, userId).Error; err != nil {
			return err
		}
		logger.Debugf("removed user %d and %d owned tasks", userId, tasks.RowsAffected)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove user %d: %w", userId, err)
	}
	return nil
}
