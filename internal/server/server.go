// Package server wires the vote API routes.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/votechain/metavote/internal/config"
	"github.com/votechain/metavote/internal/handlers"
	"github.com/votechain/metavote/internal/metrics"
	"github.com/votechain/metavote/internal/middleware"
)

// Dependencies are the components the routes are served by.
type Dependencies struct {
	Votes       *handlers.VoteHandler
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter
}

// NewRouter builds the gin engine: recovery, correlation IDs, CORS, rate
// limiting, then the routes.
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(configureCORS(cfg.CORS))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	InitializeRoutes(router, deps)
	return router
}

// InitializeRoutes registers every endpoint on router.
func InitializeRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", handlers.NewHealthHandler().Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		votes := v1.Group("/votes")
		{
			votes.POST("", deps.Votes.CastVote)
			votes.GET("/tally", deps.Votes.GetTally)
		}
		v1.GET("/addresses", deps.Votes.GetAddresses)
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS(cfg config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	corsConfig.AllowOrigins = cfg.AllowedOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	if len(cfg.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.AllowedHeaders
	}
	corsConfig.ExposeHeaders = append([]string{middleware.CorrelationIDHeader}, cfg.ExposedHeaders...)
	corsConfig.AllowCredentials = cfg.AllowCredentials

	return cors.New(corsConfig)
}
