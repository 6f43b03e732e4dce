package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/famcal/backend/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Activity  *apiHandler.ActivityHandler
	Checklist *apiHandler.ChecklistHandler
	Chat      *apiHandler.ChatHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/v1/activities", authMiddleware(handlers.Activity.GetActivities))
	r.POST("/api/v1/activities", authMiddleware(handlers.Activity.CreateActivity))
	r.DELETE("/api/v1/activities/{id}", authMiddleware(handlers.Activity.DeleteActivity))

	r.GET("/api/v1/fixed-activities", authMiddleware(handlers.Activity.GetFixedActivities))
	r.POST("/api/v1/fixed-activities", authMiddleware(handlers.Activity.CreateFixedActivity))
	r.DELETE("/api/v1/fixed-activities/{id}", authMiddleware(handlers.Activity.DeleteFixedActivity))

	r.GET("/api/v1/checklist", authMiddleware(handlers.Checklist.GetChecklist))
	r.POST("/api/v1/checklist/{taskId}/toggle", authMiddleware(handlers.Checklist.Toggle))

	r.GET("/api/v1/messages", authMiddleware(handlers.Chat.GetMessages))
	r.POST("/api/v1/messages", authMiddleware(handlers.Chat.SendMessage))

	return r
}
