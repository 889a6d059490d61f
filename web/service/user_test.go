package service

import (
	"context"
	"testing"

	"github.com/mhsanaei/todo-api/database/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRejectsDuplicate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	ok, err := s.users.CreateUser(ctx, "alice", "digest-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.users.CreateUser(ctx, "alice", "digest-2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.EqualValues(t, 1, s.countRows(t, &model.User{}, "username = ?", "alice"))
	user, err := s.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "digest-1", user.HashedPassword)
}

func TestGetUserByUsername(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")

	user, err := s.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, alice.Id, user.Id)

	user, err = s.users.GetUserByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.users.GetUserByID(ctx, alice.Id+1)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdateUsername(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	s.mustUser(t, "bob")

	ok, err := s.users.UpdateUsername(ctx, alice.Id, "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.users.UpdateUsername(ctx, alice.Id, "alicia")
	require.NoError(t, err)
	assert.True(t, ok)

	user, err := s.users.GetUserByID(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, "alicia", user.Username)

	ok, err = s.users.UpdateUsername(ctx, alice.Id, "alicia")
	require.NoError(t, err)
	assert.True(t, ok, "renaming to the current name succeeds")

	ok, err = s.users.UpdateUsername(ctx, alice.Id+100, "ghost")
	require.NoError(t, err)
	assert.False(t, ok, "unknown user id")
	assert.Zero(t, s.countRows(t, &model.User{}, "username = ?", "ghost"))
}

func TestRemoveUserCascades(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := s.mustUser(t, "alice")
	bob := s.mustUser(t, "bob")

	owned := s.mustTask(t, alice, "alice's")
	other := s.mustTask(t, bob, "bob's")
	s.mustGrant(t, alice, owned, bob, model.PermRead)
	s.mustGrant(t, bob, other, alice, model.PermUpdate)
	tagged, err := s.tasks.CreateTask(ctx, alice.Id, "tagged", nil, []string{"home", "urgent"})
	require.NoError(t, err)
	kept, err := s.tasks.CreateTask(ctx, bob.Id, "bob tagged", nil, []string{"home"})
	require.NoError(t, err)

	require.NoError(t, s.users.RemoveUser(ctx, alice.Id))

	user, err := s.users.GetUserByID(ctx, alice.Id)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, s.countRows(t, &model.Task{}, "creator_id = ?", alice.Id))
	assert.Zero(t, s.countRows(t, &model.Permission{}, "task_id = ?", owned.Id))
	assert.Zero(t, s.countRows(t, &model.Permission{}, "user_id = ?", alice.Id))

	assert.Zero(t, s.countRows(t, &model.Tag{}, "task_id = ?", tagged.Id))

	assert.EqualValues(t, 1, s.countRows(t, &model.Task{}, "id = ?", other.Id))
	assert.EqualValues(t, 1, s.countRows(t, &model.Tag{}, "task_id = ?", kept.Id))
	bobStill, err := s.users.GetUserByID(ctx, bob.Id)
	require.NoError(t, err)
	assert.NotNil(t, bobStill)
}

func TestRemoveUserUnknownIsNoop(t *testing.T) {
	s := newTestServices(t)
	s.mustUser(t, "alice")

	assert.NoError(t, s.users.RemoveUser(context.Background(), 12345))
	assert.EqualValues(t, 1, s.countRows(t, &model.User{}, "1 = 1"))
}
