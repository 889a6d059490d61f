package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mhsanaei/todo-api/config"
	"github.com/mhsanaei/todo-api/database"
	"github.com/mhsanaei/todo-api/util/crypto"
	"github.com/mhsanaei/todo-api/web/entity"
	"github.com/mhsanaei/todo-api/web/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	c := config.GetDefaultDatabaseConfig()
	c.Type = config.DatabaseTypeSQLite
	c.SQLite.Path = filepath.Join(t.TempDir(), "api.db")
	c.ConnectRetries = 0
	db, err := database.Open(c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	authz := service.NewAuthorizationService(db)
	users := service.NewUserService(db)
	tasks := service.NewTaskService(db, authz)
	perms := service.NewPermissionService(db, authz)
	tokens := service.NewTokenService([]byte("controller-test"), 30*time.Minute)
	auth := service.NewAuthService(users, crypto.PasswordHasher{Cost: bcrypt.MinCost}, tokens)

	engine := gin.New()
	g := engine.Group("/")
	NewAuthController(g, auth)
	NewUserController(g, auth, users)
	NewTaskController(g, auth, tasks)
	NewPermissionController(g, auth, authz, perms)
	return engine
}

type client struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(c.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, engine *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// signup registers username and returns a client logged in as them.
func signup(t *testing.T, engine *gin.Engine, username string) *client {
	t.Helper()
	anon := &client{t: t, engine: engine}
	w := anon.do(http.MethodPost, "/user", gin.H{"username": username, "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = login(t, engine, username, "secret")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var token entity.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, "bearer", token.TokenType)
	return &client{t: t, engine: engine, token: token.AccessToken}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (c *client) createTask(name string) int {
	c.t.Helper()
	w := c.do(http.MethodPost, "/tasks", gin.H{"name": name})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	return decode[entity.TaskCreated](c.t, w).Id
}

func (c *client) me() entity.UserView {
	c.t.Helper()
	w := c.do(http.MethodGet, "/user", nil)
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	return decode[entity.UserView](c.t, w)
}
