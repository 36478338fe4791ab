package routes

import (
	"task-admin-api/internal/handlers"
	"task-admin-api/internal/middleware"
	"task-admin-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(handler *handlers.TaskHandler, hub *realtime.Hub) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestLogger())

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Admin API is running",
		})
	})

	api := ginRouter.Group("/api")
	{
		// Cached read endpoints
		api.GET("/tasks", handler.ListTasks)
		api.GET("/tasks/status-counts", handler.StatusCounts)
		api.GET("/tasks/priority-counts", handler.PriorityCounts)
		api.GET("/tasks/estimated-hours-range", handler.EstimatedHoursRange)

		// Mutation endpoints
		api.POST("/tasks", handler.CreateTask)
		api.PUT("/tasks/:id", handler.UpdateTask)
		api.PATCH("/tasks", handler.UpdateTasks)
		api.DELETE("/tasks/:id", handler.DeleteTask)
		api.DELETE("/tasks", handler.DeleteTasks)

		// Realtime mutation event stream
		api.GET("/events", handlers.Events(hub))
	}

	return ginRouter
}
