// Package web provides the HTTP server of the todo API: routing, middleware
// and the wiring of services to controllers.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mhsanaei/todo-api/config"
	"github.com/mhsanaei/todo-api/logger"
	"github.com/mhsanaei/todo-api/util/common"
	"github.com/mhsanaei/todo-api/util/crypto"
	"github.com/mhsanaei/todo-api/util/random"
	"github.com/mhsanaei/todo-api/web/controller"
	"github.com/mhsanaei/todo-api/web/middleware"
	"github.com/mhsanaei/todo-api/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	generatedSecret     []byte
	generatedSecretOnce sync.Once
)

// tokenSecret returns the configured signing key, or a random one that is
// kept for the lifetime of the process.
func tokenSecret() []byte {
	if secret := config.GetJWTSecret(); secret != "" {
		return []byte(secret)
	}
	generatedSecretOnce.Do(func() {
		logger.Warning("TODO_JWT_SECRET is not set, using a random secret; tokens will not survive a restart")
		generatedSecret = []byte(random.Seq(32))
	})
	return generatedSecret
}

// Server is the todo API HTTP server.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	db       *gorm.DB
	tokens   *service.TokenService
	registry *prometheus.Registry

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server over db with a cancellable context.
func NewServer(db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		db:     db,
		tokens: service.NewTokenService(tokenSecret(), config.GetTokenExpire()),
		ctx:    ctx,
		cancel: cancel,
	}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() *gin.Engine {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(s.registry)

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Handler())
	if domain := config.GetDomain(); domain != "" {
		engine.Use(middleware.DomainValidator(domain))
	}
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	authz := service.NewAuthorizationService(s.db)
	userService := service.NewUserService(s.db)
	taskService := service.NewTaskService(s.db, authz)
	permissionService := service.NewPermissionService(s.db, authz)
	authService := service.NewAuthService(userService, crypto.PasswordHasher{}, s.tokens)

	g := engine.Group("/")
	controller.NewAuthController(g, authService)
	controller.NewUserController(g, authService, userService)
	controller.NewTaskController(g, authService, taskService)
	controller.NewPermissionController(g, authService, authz, permissionService)

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return engine
}

// Start binds the configured address and serves in the background.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	engine := s.initRouter()

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer common.Recover("web server")
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server stopped:", err)
		}
	}()

	return nil
}

// Stop shuts the server down, waiting at most ten seconds for requests in
// flight.
func (s *Server) Stop() error {
	defer s.cancel()
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
		if errors.Is(err2, net.ErrClosed) {
			err2 = nil
		}
	}
	return errors.Join(err1, err2)
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
