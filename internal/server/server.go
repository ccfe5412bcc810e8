package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/accounts"
	"github.com/ceylonworkforce/jobboard/internal/config"
	"github.com/ceylonworkforce/jobboard/internal/featured"
	"github.com/ceylonworkforce/jobboard/internal/jobs"
	"github.com/ceylonworkforce/jobboard/internal/moderation"
	"github.com/ceylonworkforce/jobboard/internal/storage"
)

// Services are the domain services the API exposes
type Services struct {
	Featured   *featured.Service
	Jobs       *jobs.Service
	Accounts   *accounts.Service
	Moderation *moderation.Service
}

// Server handles HTTP requests
type Server struct {
	config      config.ServerConfig
	featureDays int
	storage     storage.Storage
	svc         Services
	logger      *zap.Logger
	router      *gin.Engine
	server      *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, store storage.Storage, svc Services, logger *zap.Logger) *Server {
	if !cfg.Development() && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:      cfg.Server,
		featureDays: cfg.Board.DefaultFeatureDays,
		storage:     store,
		svc:         svc,
		logger:      logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.requestTimeout())
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	s.routes(r)
	s.router = r

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", userHeader, adminHeader}
	return c
}

func (s *Server) routes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/health", s.handleHealth)

		api.POST("/users", s.handleRegister)
		api.GET("/users/:id", s.handleGetUser)

		api.GET("/jobs", s.handleBrowseJobs)
		api.POST("/jobs", s.handlePostJob)
		api.GET("/jobs/:id", s.handleGetJob)
		api.DELETE("/jobs/:id", s.handleDeleteJob)

		api.GET("/featured", s.handleActiveFeatured)
		api.POST("/featured/:id/view", s.handleFeaturedView)
		api.POST("/featured/:id/click", s.handleFeaturedClick)

		api.POST("/reports", s.handleSubmitReport)
	}

	own := api.Group("/users/:id", s.requireSelf())
	{
		own.GET("/payments", s.handleListPayments)
		own.POST("/payments", s.handleRecordPayment)
		own.POST("/role", s.handleSelectRole)
		own.GET("/profile", s.handleGetProfile)
		own.PUT("/profile", s.handleUpdateProfile)
	}

	admin := api.Group("/admin", s.requireAdmin())
	{
		admin.GET("/dashboard", s.handleDashboard)

		admin.GET("/featured", s.handleListFeatured)
		admin.POST("/featured", s.handleCreateFeatured)
		admin.GET("/featured/:id", s.handleGetFeatured)
		admin.POST("/featured/:id/extend", s.handleExtendFeatured)
		admin.DELETE("/featured/:id", s.handleRemoveFeatured)
		admin.POST("/jobs/:id/feature", s.handleFeatureJob)
		admin.DELETE("/jobs/:id", s.handleAdminDeleteJob)

		admin.GET("/users", s.handleListUsers)
		admin.POST("/users/:id/suspend", s.handleSuspendUser)

		admin.GET("/reports", s.handleListReports)
		admin.POST("/reports/:id/resolve", s.handleResolveReport)
		admin.POST("/reports/:id/dismiss", s.handleDismissReport)
	}
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if err := s.storage.Ping(c.Request.Context()); err != nil {
		s.logger.Warn("storage ping failed", zap.Error(err))
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
