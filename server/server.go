package server

import (
	"net/http"
	"os"
	"time"

	"store-monitor/loader"
	"store-monitor/report"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server wires the HTTP API over the report runner, job registry and loader.
type Server struct {
	router   *gin.Engine
	db       *gorm.DB
	runner   *report.Runner
	registry report.Registry
	loader   *loader.Loader
}

func NewServer(db *gorm.DB, runner *report.Runner, registry report.Registry, ldr *loader.Loader) *Server {
	s := &Server{
		router:   gin.Default(),
		db:       db,
		runner:   runner,
		registry: registry,
		loader:   ldr,
	}

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if os.Getenv("DEBUG") == "true" {
		corsConfig.AllowOrigins = []string{"*"}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	s.router.Use(cors.New(corsConfig))

	s.router.GET("/health", s.health)
	s.router.GET("/", s.index)

	s.registerAPIRoutes()

	return s
}

// registerAPIRoutes registers the REST API routes
func (s *Server) registerAPIRoutes() {
	api := s.router.Group("/api/v1")
	{
		api.POST("/trigger_report", s.triggerReport)
		api.GET("/get_report", s.getReport)
		api.POST("/upload_store_status", s.uploadStoreStatus)
		api.POST("/upload_business_hours", s.uploadBusinessHours)
		api.POST("/upload_timezones", s.uploadTimezones)
		api.GET("/metrics", s.metrics)
	}
}

// Router returns the gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	health := gin.H{"status": "up"}
	sqlDB, err := s.db.DB()
	if err != nil {
		health["database"] = "error"
	} else if err := sqlDB.Ping(); err != nil {
		health["database"] = "down"
	} else {
		health["database"] = "up"
	}
	c.JSON(http.StatusOK, health)
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Store Monitoring API",
		"endpoints": gin.H{
			"trigger_report":        "/api/v1/trigger_report",
			"get_report":            "/api/v1/get_report?report_id=<id>",
			"upload_store_status":   "/api/v1/upload_store_status",
			"upload_business_hours": "/api/v1/upload_business_hours",
			"upload_timezones":      "/api/v1/upload_timezones",
			"metrics":               "/api/v1/metrics",
		},
	})
}
