// Package server wires the HTTP API: medicine disposition recommendations,
// donation-center lookup, medicine information lookup, disposal guidelines,
// and the chatbot session endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/teodorv/medcycle/cache"
	"github.com/teodorv/medcycle/chat"
	"github.com/teodorv/medcycle/config"
	"github.com/teodorv/medcycle/geo"
	"github.com/teodorv/medcycle/llm"
	"github.com/teodorv/medcycle/utils"
)

// GeoClient is the map-data dependency of the server; satisfied by
// *geo.Client and by test doubles.
type GeoClient interface {
	Geocode(ctx context.Context, location string) (geo.Coordinates, error)
	FindNearbyFacilities(ctx context.Context, origin geo.Coordinates, radiusKm float64) ([]geo.Facility, error)
}

// Server holds the handler dependencies.
type Server struct {
	cfg           *config.Config
	llm           llm.LLM
	geo           GeoClient
	chat          *chat.Service
	medicineCache *cache.Cache
	centersCache  *cache.Cache
	logger        utils.Logger
}

// New creates a Server. Both caches are process-local TTL caches; nothing
// survives a restart.
func New(cfg *config.Config, client llm.LLM, geoClient GeoClient, chatService *chat.Service, logger utils.Logger) *Server {
	return &Server{
		cfg:           cfg,
		llm:           client,
		geo:           geoClient,
		chat:          chatService,
		medicineCache: cache.New(cfg.CacheTTL),
		centersCache:  cache.New(cfg.CacheTTL),
		logger:        logger,
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/recommendation", s.handleRecommendation)
		api.GET("/donation-centers", s.handleDonationCenters)
		api.GET("/disposal-guidelines", s.handleGuidelines)
		api.POST("/medicine-info", s.handleMedicineInfo)

		api.POST("/chat/start", s.handleChatStart)
		api.POST("/chat/message", s.handleChatMessage)
		api.GET("/chat/history/:id", s.handleChatHistory)
		api.POST("/chat/end", s.handleChatEnd)
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"medicine_cache": s.medicineCache.Stats(),
		"centers_cache":  s.centersCache.Stats(),
	})
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
