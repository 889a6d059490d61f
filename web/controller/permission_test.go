package controller

import (
	"net/http"
	"testing"

	"github.com/mhsanaei/todo-api/database/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharingFlow(t *testing.T) {
	engine := newTestRouter(t)
	alice := signup(t, engine, "alice")
	bob := signup(t, engine, "bob")
	bobId := bob.me().Id
	id := alice.createTask("shared")
	task := "/tasks/" + itoa(id)
	perms := task + "/permissions"

	require.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, task, nil).Code)

	w := alice.do(http.MethodPost, perms, gin.H{"recipient_id": bobId, "perm_type": "read"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = alice.do(http.MethodPost, perms, gin.H{"recipient_id": bobId, "perm_type": "read"})
	require.Equal(t, http.StatusOK, w.Code, "granting twice is accepted")

	assert.Equal(t, http.StatusOK, bob.do(http.MethodGet, task, nil).Code)
	assert.Len(t, decode[[]model.Task](t, bob.do(http.MethodGet, "/tasks", nil)), 1)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodPut, task, gin.H{"name": "x"}).Code)

	w = alice.do(http.MethodPost, perms, gin.H{"recipient_id": bobId, "perm_type": "update"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, bob.do(http.MethodPut, task, gin.H{"name": "edited"}).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, task, nil).Code, "update grant does not allow delete")

	w = alice.do(http.MethodGet, perms, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []model.Permission{
		{TaskId: id, UserId: bobId, PermType: model.PermRead},
		{TaskId: id, UserId: bobId, PermType: model.PermUpdate},
	}, decode[[]model.Permission](t, w))

	w = alice.do(http.MethodDelete, perms, gin.H{"recipient_id": bobId, "perm_type": "read"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, task, nil).Code)
}

func TestPermissionsOnlyForCreator(t *testing.T) {
	engine := newTestRouter(t)
	alice := signup(t, engine, "alice")
	bob := signup(t, engine, "bob")
	carol := signup(t, engine, "carol")
	id := alice.createTask("task")
	perms := "/tasks/" + itoa(id) + "/permissions"

	w := alice.do(http.MethodPost, perms, gin.H{"recipient_id": bob.me().Id, "perm_type": "update"})
	require.Equal(t, http.StatusOK, w.Code)

	body := gin.H{"recipient_id": carol.me().Id, "perm_type": "read"}
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, perms, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodPost, perms, body).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, perms, body).Code)

	missing := "/tasks/" + itoa(id+50) + "/permissions"
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, missing, nil).Code)
}

func TestPermissionValidation(t *testing.T) {
	engine := newTestRouter(t)
	alice := signup(t, engine, "alice")
	id := alice.createTask("task")
	perms := "/tasks/" + itoa(id) + "/permissions"

	tests := []struct {
		name string
		path string
		body any
	}{
		{"unknown perm type", perms, gin.H{"recipient_id": 2, "perm_type": "share"}},
		{"perm type with wrong case", perms, gin.H{"recipient_id": 2, "perm_type": "Read"}},
		{"missing recipient", perms, gin.H{"perm_type": "read"}},
		{"missing perm type", perms, gin.H{"recipient_id": 2}},
		{"non numeric id", "/tasks/x/permissions", gin.H{"recipient_id": 2, "perm_type": "read"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodPost, tt.path, tt.body).Code)
			assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodDelete, tt.path, tt.body).Code)
		})
	}
}
