package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/lankaevents/internal/container"
	"github.com/joshua-takyi/lankaevents/internal/handlers"
	"github.com/joshua-takyi/lankaevents/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	if container.Config.MetricsEnabled {
		r.Use(middleware.Metrics(container.Metrics))
	}
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "lankaevents-api",
			})
		})

		api.GET("/events", handlers.SearchEvents(container.EventService))
		api.GET("/events/:id", handlers.GetEventByID(container.EventService))
	}

	scraping := api.Group("/scraping")
	{
		scraping.POST("/run", handlers.RunScraping(container.ScrapingService))
		scraping.GET("/status", handlers.GetScrapingStatus(container.ScrapingService))
	}

	if container.Config.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(container.Metrics.Handler()))
	}

	return r
}
