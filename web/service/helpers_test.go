package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mhsanaei/todo-api/config"
	"github.com/mhsanaei/todo-api/database"
	"github.com/mhsanaei/todo-api/database/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type services struct {
	db          *gorm.DB
	authz       *AuthorizationService
	users       *UserService
	tasks       *TaskService
	permissions *PermissionService
}

func newTestServices(t *testing.T) *services {
	t.Helper()
	c := config.GetDefaultDatabaseConfig()
	c.Type = config.DatabaseTypeSQLite
	c.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	c.ConnectRetries = 0

	db, err := database.Open(c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	authz := NewAuthorizationService(db)
	return &services{
		db:          db,
		authz:       authz,
		users:       NewUserService(db),
		tasks:       NewTaskService(db, authz),
		permissions: NewPermissionService(db, authz),
	}
}

func (s *services) mustUser(t *testing.T, username string) *model.User {
	t.Helper()
	ctx := context.Background()
	ok, err := s.users.CreateUser(ctx, username, "digest-"+username)
	require.NoError(t, err)
	require.True(t, ok)
	user, err := s.users.GetUserByUsername(ctx, username)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func (s *services) mustTask(t *testing.T, creator *model.User, name string) *model.Task {
	t.Helper()
	task, err := s.tasks.CreateTask(context.Background(), creator.Id, name, nil, nil)
	require.NoError(t, err)
	require.NotZero(t, task.Id)
	return task
}

func (s *services) mustGrant(t *testing.T, creator *model.User, task *model.Task, recipient *model.User, perm model.PermType) {
	t.Helper()
	ok, err := s.permissions.AddPermission(context.Background(), creator.Id, task.Id, recipient.Id, perm)
	require.NoError(t, err)
	require.True(t, ok)
}

func (s *services) countRows(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
