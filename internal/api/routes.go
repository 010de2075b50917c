package api

import (
	"net/http"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles the dependencies SetupRoutes mounts handlers for.
type Services struct {
	Auth       service.AuthService
	User       service.UserService
	Plan       service.PlanService
	Completion service.CompletionService
	Stats      service.StatsService
	Content    service.ContentService
	Admin      service.AdminService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	userHandler := NewUserHandler(services.User)
	planHandler := NewPlanHandler(services.Plan)
	completionHandler := NewCompletionHandler(services.Completion, services.Stats)
	exerciseHandler := NewExerciseHandler(services.Content)
	foodHandler := NewFoodHandler(services.Content)
	adminHandler := NewAdminHandler(services.Admin)

	authMiddleware := AuthMiddleware(jwtSecret)
	ownerOrAdmin := OwnerOrAdminMiddleware("id")
	ownerOnly := OwnerOnlyMiddleware("id")

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		usersGroup := protected.Group("/users")
		{
			// GET /api/v1/users/plans/{bundleId}; the service checks ownership once the bundle is loaded
			usersGroup.GET("/plans/:bundleId", planHandler.GetBundle)

			// --- Profile & Preferences (owner or admin) ---
			usersGroup.GET("/:id", ownerOrAdmin, userHandler.GetProfile)
			usersGroup.PUT("/:id", ownerOrAdmin, userHandler.UpdateProfile)
			usersGroup.GET("/:id/preferences", ownerOrAdmin, userHandler.GetPreferences)
			usersGroup.POST("/:id/preferences", ownerOrAdmin, userHandler.SavePreferences)
			usersGroup.PUT("/:id/preferences", ownerOrAdmin, userHandler.SavePreferences)

			// --- Plan Bundles (owner or admin) ---
			usersGroup.POST("/:id/generate-plan", ownerOrAdmin, planHandler.GeneratePlan)
			usersGroup.GET("/:id/generate-plan/eligibility", ownerOrAdmin, planHandler.Eligibility)
			usersGroup.GET("/:id/plans", ownerOrAdmin, planHandler.ListPlans)

			// --- Completions & Stats (owner only) ---
			usersGroup.POST("/:id/workout-completions", ownerOnly, completionHandler.MarkComplete)
			usersGroup.DELETE("/:id/workout-completions", ownerOnly, completionHandler.Unmark)
			usersGroup.GET("/:id/workout-completions", ownerOnly, completionHandler.ListForBundle)
			usersGroup.GET("/:id/workout-completions/week", ownerOnly, completionHandler.ListForWeek)
			usersGroup.GET("/:id/stats", ownerOnly, completionHandler.Stats)
		}

		// --- Exercise Library (read) ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/name/:name", exerciseHandler.GetExerciseByName)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.POST("/exercises", exerciseHandler.CreateExercise)
			adminGroup.POST("/exercises/bulk", exerciseHandler.CreateExercisesBulk)
			adminGroup.PUT("/exercises/:id", exerciseHandler.UpdateExercise)
			adminGroup.DELETE("/exercises/:id", exerciseHandler.DeleteExercise)
			adminGroup.POST("/exercises/:id/media/upload-url", exerciseHandler.RequestMediaUpload)
			adminGroup.POST("/exercises/:id/media/confirm", exerciseHandler.ConfirmMedia)

			adminGroup.GET("/food-items", foodHandler.ListFoodItems)
			adminGroup.GET("/food-items/:id", foodHandler.GetFoodItem)
			adminGroup.POST("/food-items", foodHandler.CreateFoodItem)
			adminGroup.POST("/food-items/bulk", foodHandler.CreateFoodItemsBulk)
			adminGroup.PUT("/food-items/:id", foodHandler.UpdateFoodItem)
			adminGroup.DELETE("/food-items/:id", foodHandler.DeleteFoodItem)

			adminGroup.GET("/stats", adminHandler.Dashboard)
			adminGroup.GET("/provider/status", adminHandler.ProviderStatus)
			adminGroup.POST("/provider/reindex", adminHandler.TriggerReindex)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			adminGroup.PUT("/plans/:bundleId/status", planHandler.SetBundleStatus)
		}
	}
}
