package server

import (
	"net/http"
	"time"

	"github.com/agenthands/storyweave/internal/config"
	"github.com/agenthands/storyweave/internal/games"
	"github.com/agenthands/storyweave/internal/images"
	"github.com/agenthands/storyweave/internal/llm"
	"github.com/agenthands/storyweave/internal/monitor"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const version = "1.0.0"

type Server struct {
	cfg      *config.Config
	llm      *llm.Registry
	games    *games.Service
	images   *images.Store
	reporter *monitor.Reporter
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

type Deps struct {
	Config   *config.Config
	LLM      *llm.Registry
	Games    *games.Service
	Images   *images.Store
	Reporter *monitor.Reporter
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewServer(d Deps) *Server {
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		cfg:      d.Config,
		llm:      d.LLM,
		games:    d.Games,
		images:   d.Images,
		reporter: d.Reporter,
		gatherer: gatherer,
		logger:   d.Logger.Named("http"),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	if !s.cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.logger))
	r.Use(cors.New(s.corsConfig()))
	// Bounds in-memory multipart buffering. UploadImage caps the body itself.
	r.MaxMultipartMemory = s.cfg.Storage.MaxUploadBytes + multipartOverhead

	r.GET("/", s.Root)
	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	r.Static("/uploads", s.images.Dir())

	api := r.Group("/api")
	api.POST("/generate-story", s.GenerateStory)
	api.POST("/analyze-story", s.AnalyzeStory)
	api.POST("/upload-image", s.UploadImage)
	api.DELETE("/delete-image/:filename", s.DeleteImage)
	api.POST("/games", s.SaveGame)
	api.GET("/games", s.ListGames)
	api.GET("/games/:id", s.GetGame)
	api.GET("/storage/health", s.StorageHealth)
	api.POST("/storage/cleanup", s.StorageCleanup)

	return r
}

func (s *Server) corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = s.cfg.Server.AllowedOrigins
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"http://localhost:3000"}
	}
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	c.ExposeHeaders = []string{"X-Request-ID"}
	c.AllowCredentials = true
	c.MaxAge = 12 * time.Hour
	return c
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Story Generator API",
		"version": version,
		"endpoints": gin.H{
			"generate_story": "/api/generate-story",
			"analyze_story":  "/api/analyze-story",
			"upload_image":   "/api/upload-image",
			"games":          "/api/games",
			"storage_health": "/api/storage/health",
			"health":         "/health",
		},
	})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"timestamp":         time.Now(),
		"claude_configured": s.llm.Configured(llm.ProviderClaude),
		"gemini_configured": s.llm.Configured(llm.ProviderGemini),
	})
}
