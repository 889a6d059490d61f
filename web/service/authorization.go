// Package service implements the task API's business operations over the
// relational store: users, tasks, per-task permissions, tokens and login.
//
// Every task-scoped operation is gated by AuthorizationService. A failed
// gate is reported as a false or nil result with a nil error; errors are
// only returned for store faults.
package service

import (
	"context"

	"github.com/mhsanaei/todo-api/database/model"

	"gorm.io/gorm"
)

// AuthorizationService answers the two ownership questions every task
// operation asks before it touches a task.
type AuthorizationService struct {
	db *gorm.DB
}

func NewAuthorizationService(db *gorm.DB) *AuthorizationService {
	return &AuthorizationService{db: db}
}

// IsCreator reports whether taskId exists and was created by userId.
func (s *AuthorizationService) IsCreator(ctx context.Context, userId, taskId int) (bool, error) {
	return isCreator(s.db.WithContext(ctx), userId, taskId)
}

// IsAuthorized reports whether userId created taskId or holds a permType
// grant on it. Both cases are answered by one query.
func (s *AuthorizationService) IsAuthorized(ctx context.Context, userId, taskId int, permType model.PermType) (bool, error) {
	return isAuthorized(s.db.WithContext(ctx), userId, taskId, permType)
}

func isCreator(tx *gorm.DB, userId, taskId int) (bool, error) {
	var count int64
	err := tx.Model(&model.Task{}).
		Where("id = ? AND creator_id = ?", taskId, userId).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func isAuthorized(tx *gorm.DB, userId, taskId int, permType model.PermType) (bool, error) {
	var count int64
	err := tx.Table("tasks AS t").
		Joins("LEFT JOIN permissions AS p ON p.task_id = t.id AND p.user_id = ? AND p.perm_type = ?", userId, string(permType)).
		Where("t.id = ? AND (t.creator_id = ? OR p.user_id IS NOT NULL)", taskId, userId).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
