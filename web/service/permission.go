package service

import (
	"context"
	"fmt"

	"github.com/mhsanaei/todo-api/database/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PermissionService struct {
	db    *gorm.DB
	authz *AuthorizationService
}

func NewPermissionService(db *gorm.DB, authz *AuthorizationService) *PermissionService {
	return &PermissionService{db: db, authz: authz}
}

// AddPermission grants permType on taskId to recipientId. Only the creator
// may grant. Granting an existing tuple again succeeds without a new row.
func (s *PermissionService) AddPermission(ctx context.Context, granterId, taskId, recipientId int, permType model.PermType) (bool, error) {
	ok, err := s.authz.IsCreator(ctx, granterId, taskId)
	if err != nil || !ok {
		return false, err
	}
	perm := &model.Permission{
		TaskId:   taskId,
		UserId:   recipientId,
		PermType: permType,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(perm).
		Error
	if err != nil {
		return false, fmt.Errorf("add permission: %w", err)
	}
	return true, nil
}

// RemovePermission revokes the tuple if present. Only the creator may revoke.
func (s *PermissionService) RemovePermission(ctx context.Context, granterId, taskId, recipientId int, permType model.PermType) (bool, error) {
	ok, err := s.authz.IsCreator(ctx, granterId, taskId)
	if err != nil || !ok {
		return false, err
	}
	err = s.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ? AND perm_type = ?", taskId, recipientId, string(permType)).
		Delete(&model.Permission{}).
		Error
	if err != nil {
		return false, fmt.Errorf("remove permission: %w", err)
	}
	return true, nil
}

// FindPermissions lists every grant on taskId. It does not check that
// requesterId may see them; callers must gate it themselves.
func (s *PermissionService) FindPermissions(ctx context.Context, requesterId, taskId int) ([]model.Permission, error) {
	perms := make([]model.Permission, 0)
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskId).
		Find(&perms).
		Error
	if err != nil {
		return nil, fmt.Errorf("find permissions of task %d for user %d: %w", taskId, requesterId, err)
	}
	return perms, nil
}
