package routes

import (
	"pocketdesk/internal/controller"
	"pocketdesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Router wires the API. With an empty jwtSecret the /api group is open,
// which is how the app runs on a single device.
func Router(h *controller.Handler, jwtSecret string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	// Health for load balancers and probes
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	api := router.Group("/api")
	if jwtSecret != "" {
		api.Use(middleware.AuthMiddleware(jwtSecret))
	}
	{
		api.GET("/theme", h.GetTheme)
		api.POST("/theme/toggle", h.ToggleTheme)
		api.GET("/view", h.GetView)
		api.PUT("/view", h.SetView)

		api.GET("/tasks", h.ListTasks)
		api.POST("/tasks", h.CreateTask)
		api.PUT("/tasks/:id", h.UpdateTask)
		api.DELETE("/tasks/:id", h.DeleteTask)

		api.GET("/notes", h.ListNotes)
		api.POST("/notes", h.CreateNote)
		api.PUT("/notes/:id", h.UpdateNote)
		api.DELETE("/notes/:id", h.DeleteNote)
		api.POST("/notes/:id/unlock", h.UnlockNote)

		api.GET("/pin", h.GetPIN)
		api.POST("/pin", h.RegisterPIN)
		api.PUT("/pin", h.ChangePIN)

		api.DELETE("/data", h.ClearAll)
	}

	return router
}
