package server

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gestibat/api/internal/config"
	"gestibat/api/internal/handler"
	"gestibat/api/internal/middleware"
	"gestibat/api/internal/model"
	"gestibat/api/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	return &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
	}
}

// Setup initializes routes and handlers
func (s *Server) Setup() {
	// Initialize services
	authService := service.NewAuthService(s.db, s.redis, s.config.BootstrapRole, s.config.SessionTTL)
	stockService := service.NewStockService(s.db)
	reportService := service.NewReportService(s.db)
	snapshotService := service.NewSnapshotService(s.db)
	exportService := service.NewExportService(s.db, stockService, reportService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, s.config)
	chantierHandler := handler.NewChantierHandler(s.db)
	clientHandler := handler.NewClientHandler(s.db)
	monteurHandler := handler.NewMonteurHandler(s.db)
	stockHandler := handler.NewStockHandler(s.db, stockService, exportService)
	reportHandler := handler.NewReportHandler(reportService, exportService)
	profileHandler := handler.NewProfileHandler(s.db, authService)
	bootstrapHandler := handler.NewBootstrapHandler(snapshotService)

	moduleGate := middleware.NewModuleMiddleware(s.db)

	// Setup Gin router
	s.router = gin.Default()

	// CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Swagger UI
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	login := s.router.Group("/api/v1")
	if s.config.RateLimit.Enabled && s.redis != nil {
		limiter := middleware.NewRedisRateLimiter(s.redis)
		login.Use(middleware.RateLimit(limiter, &middleware.RateLimitConfig{
			Limit:  s.config.RateLimit.Login.Limit,
			Window: int(s.config.RateLimit.Login.Window.Seconds()),
		}))
		log.Printf("[Server] Login rate limit: %d req / %s", s.config.RateLimit.Login.Limit, s.config.RateLimit.Login.Window)
	}
	login.POST("/auth/login", authHandler.Login)

	// Protected routes
	api := s.router.Group("/api/v1")
	api.Use(authHandler.AuthMiddleware())
	{
		// Auth
		api.GET("/auth/me", authHandler.GetMe)
		api.POST("/auth/logout", authHandler.Logout)

		// Bootstrap snapshot and dashboard, open to every active session
		bootstrapHandler.RegisterRoutes(api)
		reportHandler.RegisterDashboard(api)

		// Business modules, each behind its own gate
		chantiers := api.Group("", moduleGate.RequireModule(model.ModuleChantiers))
		chantierHandler.RegisterRoutes(chantiers)

		clients := api.Group("", moduleGate.RequireModule(model.ModuleClients))
		clientHandler.RegisterRoutes(clients)

		monteurs := api.Group("", moduleGate.RequireModule(model.ModuleMonteurs))
		monteurHandler.RegisterRoutes(monteurs)

		stock := api.Group("", moduleGate.RequireModule(model.ModuleStock))
		stockHandler.RegisterRoutes(stock)

		rapports := api.Group("", moduleGate.RequireModule(model.ModuleRapports))
		reportHandler.RegisterRoutes(rapports)

		admin := api.Group("", moduleGate.RequireModule(model.ModuleAdmin))
		profileHandler.RegisterRoutes(admin)
	}
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	log.Printf("[Server] HTTP server listening on %s", addr)
	return s.router.Run(addr)
}

// GetRouter returns the gin router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
