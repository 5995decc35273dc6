// Package routes wires the HTTP handlers onto the gin engine.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vacanza-be/internal/auth"
	"vacanza-be/internal/handlers"
	"vacanza-be/internal/middleware"
)

// Handlers bundles everything Register needs.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Groups     *handlers.GroupHandler
	Activities *handlers.ActivityHandler
	Expenses   *handlers.ExpenseHandler
	Tokens     *auth.JWTManager
	Logger     *slog.Logger
}

// Register builds the gin engine with the full API surface.
func Register(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(h.Logger))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/refresh", h.Auth.Refresh)
		authRoutes.GET("/me", middleware.RequireAuth(h.Tokens), h.Auth.Me)
	}

	users := api.Group("/users", middleware.RequireAuth(h.Tokens))
	{
		users.GET("/search", h.Auth.SearchUsers)
	}

	groups := api.Group("/groups", middleware.RequireAuth(h.Tokens))
	{
		groups.POST("", h.Groups.Create)
		groups.GET("", h.Groups.List)
		groups.POST("/join", h.Groups.Join)
		groups.GET("/:groupId", h.Groups.Get)
		groups.PUT("/:groupId", h.Groups.Update)
		groups.DELETE("/:groupId", h.Groups.Delete)
		groups.POST("/:groupId/leave", h.Groups.Leave)

		groups.GET("/:groupId/members", h.Groups.ListMembers)
		groups.POST("/:groupId/members", h.Groups.AddMember)
		groups.PUT("/:groupId/members/:memberId/role", h.Groups.SetMemberRole)
		groups.DELETE("/:groupId/members/:memberId", h.Groups.RemoveMember)

		groups.GET("/:groupId/activities", h.Activities.List)
		groups.POST("/:groupId/activities", h.Activities.Create)
		groups.PUT("/:groupId/activities/reorder", h.Activities.Reorder)
		groups.GET("/:groupId/activities/:activityId", h.Activities.Get)
		groups.PUT("/:groupId/activities/:activityId", h.Activities.Update)
		groups.DELETE("/:groupId/activities/:activityId", h.Activities.Delete)
		groups.PATCH("/:groupId/activities/:activityId/toggle-completion", h.Activities.ToggleCompletion)

		groups.GET("/:groupId/activities/:activityId/participants", h.Activities.ListParticipants)
		groups.POST("/:groupId/activities/:activityId/participants", h.Activities.AddParticipant)
		groups.PUT("/:groupId/activities/:activityId/participants/:participantId/status", h.Activities.SetParticipantStatus)
		groups.DELETE("/:groupId/activities/:activityId/participants/:participantId", h.Activities.RemoveParticipant)

		groups.GET("/:groupId/activities/:activityId/expenses", h.Expenses.ListByActivity)
		groups.POST("/:groupId/activities/:activityId/expenses", h.Expenses.Create)
		groups.GET("/:groupId/expenses", h.Expenses.ListByGroup)
		groups.DELETE("/:groupId/expenses/:expenseId", h.Expenses.Delete)
		groups.GET("/:groupId/expenses/settlement", h.Expenses.Settlement)
	}

	return r
}
